package insights

import (
	"fmt"
	"strings"

	"github.com/Paldeepak079/AadharIQ/models"
)

var audienceTemplates = map[models.Audience]string{
	models.AudiencePolicymaker: `You are an elite policy consultant for UIDAI (Unique Identification Authority of India).
Your audience is senior policymakers and government decision-makers.
Tone: Formal, authoritative, policy-grade language.
Focus: Social-economic impacts, digital public infrastructure efficiency, political feasibility.
Structure: "Executive Summary", "Societal Trend Analysis", "Identified Anomalies", "Recommended Policy Framework".`,

	models.AudienceFieldTeam: `You are a field operations advisor for UIDAI.
Your audience is district-level field officers and enrollment center coordinators.
Tone: Practical, operational, action-oriented.
Focus: Ground-level implementation, resource allocation, operational bottlenecks.
Structure: "Field Situation", "Operational Issues", "Immediate Actions Required".`,

	models.AudienceCitizen: `You are a public-facing Aadhaar information assistant.
Your audience is everyday citizens seeking to understand Aadhaar trends in their region.
Tone: Simple, plain-language, friendly, non-technical.
Focus: What it means for local communities, accessibility, ease of service.
Structure: "What's Happening in Your Area", "Why This Matters", "What You Can Do".`,

	models.AudienceAnalyst: `You are a data intelligence analyst for UIDAI.
Your audience is data scientists, ML engineers, and strategic planners.
Tone: Technical, data-driven, analytical.
Focus: Statistical patterns, ML model outputs, predictive insights, data quality.
Structure: "Data Overview", "Pattern Detection", "ML Insights", "Recommendations for Model Tuning".`,
}

// BuildPrompt assembles the audience-aware generation prompt.
func BuildPrompt(req models.InsightRequest, tags []models.TrendTag) string {
	types := make([]string, len(tags))
	for i, t := range tags {
		types[i] = t.Type
	}
	lang := ""
	if req.Language == models.English {
		lang = "Write in English."
	}
	return fmt.Sprintf(`%s

Region: %s
Data Summary: %s
Detected Trends: %s

Generate a comprehensive insight report (250-300 words).
%s
`, audienceTemplates[req.Audience], req.Region, req.DataSummary, strings.Join(types, ", "), lang)
}

// TranslationPrompt asks for a Devanagari rendering of an English insight.
func TranslationPrompt(insight string) string {
	return "Translate the following Aadhaar policy insight to Hindi (Devanagari script). Maintain the formal tone and structure:\n\n" + insight
}
