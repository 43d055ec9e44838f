package insights

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
)

const (
	TagMigrationLinked = "migration-linked"
	TagUpdateBacklog   = "update-backlog"
	TagGenderSkew      = "gender-skew"
	TagEnrolmentSurge  = "enrollment-surge"
	TagAgeAnomaly      = "age-anomaly"
	TagRuralUrbanGap   = "rural-urban-gap"
)

var percentPattern = regexp.MustCompile(`\+(\d+)%`)

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// DetectTrends tags a data summary by keyword. Tags come out in a fixed
// order.
func DetectTrends(summary string) []models.TrendTag {
	tags := make([]models.TrendTag, 0)
	lower := strings.ToLower(summary)

	if containsAny(lower, "surge", "spike", "+") {
		percent := 0
		if m := percentPattern.FindStringSubmatch(summary); m != nil {
			percent, _ = strconv.Atoi(m[1])
		}
		severity := "low"
		switch {
		case percent > 40:
			severity = "high"
		case percent > 25:
			severity = "medium"
		}
		tags = append(tags, models.TrendTag{Type: TagMigrationLinked, Severity: severity, Confidence: 0.75})
	}
	if containsAny(lower, "backlog", "pending", "low update") {
		tags = append(tags, models.TrendTag{Type: TagUpdateBacklog, Severity: "medium", Confidence: 0.7})
	}
	if containsAny(lower, "gender", "male", "female") {
		tags = append(tags, models.TrendTag{Type: TagGenderSkew, Severity: "medium", Confidence: 0.65})
	}
	if strings.Contains(lower, "enrollment") && containsAny(lower, "high", "increase") {
		tags = append(tags, models.TrendTag{Type: TagEnrolmentSurge, Severity: "low", Confidence: 0.8})
	}
	if containsAny(lower, "child", "elderly", "age") {
		tags = append(tags, models.TrendTag{Type: TagAgeAnomaly, Severity: "low", Confidence: 0.6})
	}
	if containsAny(lower, "rural", "urban", "tribal") {
		tags = append(tags, models.TrendTag{Type: TagRuralUrbanGap, Severity: "medium", Confidence: 0.7})
	}
	return tags
}

// ActionableSteps turns tags into field actions for a region, dropping
// repeats while keeping first-seen order.
func ActionableSteps(tags []models.TrendTag, region string) []string {
	var actions []string
	for _, tag := range tags {
		switch tag.Type {
		case TagMigrationLinked:
			if tag.Severity == "high" || tag.Severity == "critical" {
				actions = append(actions,
					fmt.Sprintf("Deploy mobile enrollment units to %s to handle migration-driven surge", region),
					"Increase biometric update capacity by 40% in next quarter")
			}
		case TagUpdateBacklog:
			actions = append(actions,
				fmt.Sprintf("Launch targeted awareness campaign for pending demographic updates in %s", region),
				"Set up weekend enrollment camps in underserved pincodes")
		case TagGenderSkew:
			actions = append(actions,
				fmt.Sprintf("Initiate women-centric enrollment drives in %s with female operators", region),
				"Partner with SHGs and Anganwadi centers for outreach")
		case TagEnrolmentSurge:
			actions = append(actions, "Allocate additional resources to enrollment centers experiencing high demand")
		case TagAgeAnomaly:
			actions = append(actions,
				fmt.Sprintf("Focus on child enrollment (0-5 years) through school partnerships in %s", region),
				"Conduct biometric refresh drives for elderly citizens (65+)")
		case TagRuralUrbanGap:
			actions = append(actions,
				fmt.Sprintf("Strengthen rural enrollment infrastructure in %s", region),
				"Deploy van-based mobile enrollment for remote tribal areas")
		}
	}

	seen := make(map[string]struct{}, len(actions))
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
