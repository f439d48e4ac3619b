package main

import "supply-chain-security/cmd"

func main() {
	cmd.Execute()
}
