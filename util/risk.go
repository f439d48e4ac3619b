package util

import (
	"log/slog"
	"math"

	"supply-chain-security/config"
	"supply-chain-security/dependabot"
)

// RiskReport summarises the risk of a repository's alerts.
type RiskReport struct {
	Score    float64
	Scored   int
	Unscored int
	Critical int
	High     int
}

// AlertScore returns the published CVSS score of the alert, falling back to
// the base score computed from its vector.
func AlertScore(alert *dependabot.Alert) (float64, bool) {
	if score, ok := alert.CvssScore(); ok {
		return score, true
	}
	if alert.CvssVector() == "" {
		return 0, false
	}
	score, err := CvssBaseScore(alert.CvssVector())
	if err != nil {
		slog.Warn("could not compute cvss score", "alert", alert.Key(), "vector", alert.CvssVector(), "err", err)
		return 0, false
	}
	return score, true
}

// RepositoryRisk computes the risk score of the given alerts. Alerts without
// any CVSS information are counted but do not weigh in.
func RepositoryRisk(alerts []*dependabot.Alert) RiskReport {
	var report RiskReport
	scores := make([]float64, 0, len(alerts))
	for _, alert := range alerts {
		score, ok := AlertScore(alert)
		if !ok {
			report.Unscored++
			continue
		}
		scores = append(scores, score)
	}

	report.Scored = len(scores)
	if report.Scored == 0 {
		return report
	}

	// Count critical alerts (>= 9) and high alerts (7 - 9)
	for _, score := range scores {
		if score >= config.CriticalRiskThreshold {
			report.Critical++
		} else if score >= config.HighRiskThreshold {
			report.High++
		}
	}

	N := float64(report.Scored)
	CRP := float64(report.Critical) / N
	HRP := float64(report.High) / N

	riskScore := computeWAAR(scores) * (1 + config.CriticalRiskAlertConstant*CRP + config.HighRiskAlertConstant*HRP)
	report.Score = math.Round(riskScore*100) / 100
	return report
}

func assignAlertRiskWeight(score float64) float64 {
	if score >= config.CriticalRiskThreshold {
		return 1.5 // Critical weight
	} else if score >= config.HighRiskThreshold {
		return 1.2 // High weight
	} else if score >= config.MediumRiskThreshold {
		return 1.0 // Normal weight
	} else {
		return 0.8 // Low severity weight
	}
}

// computeWAAR calculates the Weighted Average Alert Risk.
func computeWAAR(scores []float64) float64 {
	var weightedSum, totalWeight float64
	for _, score := range scores {
		weight := assignAlertRiskWeight(score)
		weightedSum += score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0
	}
	return weightedSum / totalWeight
}
