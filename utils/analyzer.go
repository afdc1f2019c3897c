package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"salescoach/config"
	"salescoach/models"
)

// maxListItems caps the objections, mistakes and insights lists no
// matter how many entries the model returns.
const maxListItems = 5

// Analyzer runs the session-analysis pipeline: build prompt, invoke the
// model, parse and validate the response, persist the analytics record
// and flip the session's analyzed flag.
type Analyzer struct {
	DB        *gorm.DB
	Generator TextGenerator
	Logger    *log.Logger
}

func NewAnalyzer(db *gorm.DB, generator TextGenerator, logger *log.Logger) *Analyzer {
	return &Analyzer{
		DB:        db,
		Generator: generator,
		Logger:    logger,
	}
}

// analysisResult mirrors the JSON object the model is instructed to
// return. Pointers distinguish a missing field from a zero value so the
// shape check can reject incomplete output.
type analysisResult struct {
	PitchScore      *float64          `json:"pitchScore"`
	BuyerIntent     *float64          `json:"buyerIntent"`
	Objections      *[]string         `json:"objections"`
	Mistakes        *[]models.Mistake `json:"mistakes"`
	Insights        *[]string         `json:"insights"`
	FollowupMessage *string           `json:"followupMessage"`
}

// Analyze analyzes one session. It is idempotent per session: when an
// analytics record already exists it is returned unchanged and the
// model is not invoked again. On any failure the session stays
// unanalyzed with no analytics row, so a retry behaves exactly like a
// first attempt.
func (a *Analyzer) Analyze(ctx context.Context, sessionID uint) (*models.Analytics, error) {
	var session models.SaleSession
	if err := a.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Session"}
		}
		return nil, err
	}

	// Idempotent short-circuit: at most one model invocation per
	// session across repeated calls
	var existing models.Analytics
	err := a.DB.Where("session_id = ?", session.ID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var salesperson models.User
	if err := a.DB.First(&salesperson, session.SalespersonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "Salesperson"}
		}
		return nil, err
	}

	prompt := a.buildAnalysisPrompt(&session, &salesperson)

	text, err := a.Generator.GenerateText(ctx, prompt)
	if err != nil {
		LogError("analysis_generation", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return nil, err
	}

	result, err := parseAnalysis(text)
	if err != nil {
		return nil, err
	}

	analytics := models.Analytics{
		SessionID:       session.ID,
		SalespersonID:   session.SalespersonID,
		CustomerID:      session.CustomerID,
		PitchScore:      ClampScore(*result.PitchScore),
		BuyerIntent:     ClampScore(*result.BuyerIntent),
		Objections:      datatypes.NewJSONSlice(truncateList(*result.Objections)),
		Mistakes:        datatypes.NewJSONSlice(truncateList(*result.Mistakes)),
		Insights:        datatypes.NewJSONSlice(truncateList(*result.Insights)),
		FollowupMessage: *result.FollowupMessage,
		AnalysisDate:    time.Now(),
		OrganizationID:  session.OrganizationID,
		ZoneID:          session.ZoneID,
		StoreID:         session.StoreID,
	}

	if err := a.DB.Create(&analytics).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent Analyze for the same session won the
			// insert race; its record is the record.
			var winner models.Analytics
			if ferr := a.DB.Where("session_id = ?", session.ID).First(&winner).Error; ferr != nil {
				return nil, ferr
			}
			return &winner, nil
		}
		return nil, err
	}

	if err := a.DB.Model(&session).Update("is_analyzed", true).Error; err != nil {
		// The analytics row exists, so a retry will short-circuit
		// in step 2 and return it.
		LogError("session_flag_update", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return nil, err
	}

	a.Logger.Printf("Session %d analyzed: pitch=%d intent=%d",
		session.ID, analytics.PitchScore, analytics.BuyerIntent)

	return &analytics, nil
}

// RegenerateFollowup rebuilds the follow-up message from the prior
// analysis and the customer's reply. Model failures do not fail the
// call: a templated fallback embedding the reply is persisted and
// returned instead, with usedFallback set. Follow-up generation is
// lower-stakes than the initial analysis and must never block the user.
func (a *Analyzer) RegenerateFollowup(ctx context.Context, sessionID uint, customerReply string) (message string, usedFallback bool, err error) {
	var analytics models.Analytics
	if err := a.DB.Where("session_id = ?", sessionID).First(&analytics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, &NotFoundError{Resource: "Analytics"}
		}
		return "", false, err
	}

	var customer models.Customer
	if err := a.DB.First(&customer, analytics.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, &NotFoundError{Resource: "Customer"}
		}
		return "", false, err
	}

	prompt := buildFollowupPrompt(&analytics, customer.Name, customerReply)

	text, genErr := a.Generator.GenerateText(ctx, prompt)
	if genErr != nil {
		LogError("followup_generation", genErr, map[string]interface{}{
			"session_id": sessionID,
		})

		fallback := FallbackFollowupMessage(customerReply)
		if err := a.DB.Model(&analytics).Update("followup_message", fallback).Error; err != nil {
			return "", false, err
		}
		return fallback, true, nil
	}

	if err := a.DB.Model(&analytics).Update("followup_message", text).Error; err != nil {
		return "", false, err
	}
	return text, false, nil
}

// antiFabricationInstructions is appended to every prompt verbatim. It
// forbids invented content and decorative symbols and demands every
// field be present.
const antiFabricationInstructions = `Instructions:
- Do not use asterisks (*) or any symbols in your output.
- All output fields must be present and non-empty. If a field cannot be filled, use a relevant message like "No data available".
- Do not make up any false comments, statements, or conversation. Only use the real transcript and details provided.
- Stick strictly to the actual conversation and facts.`

func (a *Analyzer) buildAnalysisPrompt(session *models.SaleSession, salesperson *models.User) string {
	return fmt.Sprintf(`%s

Conversation Details:
- Salesperson: %s
- Customer: %s
- Duration: %s
- Date: %s

Conversation Transcript:
%s

%s

Please analyze this conversation and return a JSON response with the exact structure:
{
  "pitchScore": number (0-100),
  "buyerIntent": number (0-100),
  "objections": ["string1", "string2", ...] (1-5 items),
  "mistakes": [{"statement": "exact quote", "comment": "improvement suggestion"}, ...] (1-5 items),
  "insights": ["string1", "string2", ...] (1-5 items),
  "followupMessage": "personalized message for the customer"
}`,
		config.AppConfig.GeminiPrompt,
		salesperson.Name,
		session.CustomerName,
		FormatSessionDuration(session.Duration),
		session.SessionDate.Format(time.RFC1123),
		session.Transcript,
		antiFabricationInstructions,
	)
}

func buildFollowupPrompt(analytics *models.Analytics, customerName, customerReply string) string {
	return fmt.Sprintf(`Based on the previous sales conversation and the customer's recent response, generate a personalized follow-up message.

Original conversation insights:
- Pitch Score: %d/100
- Buyer Intent: %d%%
- Key Objections: %s
- Customer Name: %s

Customer's Recent Response:
"%s"

%s

Generate a professional, personalized follow-up message that addresses their specific concerns and moves the conversation forward. The message should be concise, empathetic, and action-oriented.`,
		analytics.PitchScore,
		analytics.BuyerIntent,
		strings.Join(analytics.Objections, ", "),
		customerName,
		customerReply,
		antiFabricationInstructions,
	)
}

// FallbackFollowupMessage is the deterministic follow-up used when the
// model is unavailable. It always embeds the customer's reply verbatim.
func FallbackFollowupMessage(customerReply string) string {
	return fmt.Sprintf(`Thank you for your response! Based on your feedback: "%s", I'd like to address your concerns in our next conversation. Let me prepare a customized proposal that takes your specific requirements into account. When would be a good time for a follow-up call this week?`, customerReply)
}

// parseAnalysis extracts the JSON object from the model's text and
// validates its shape. No field may be missing and every field must
// have the expected type; otherwise nothing reaches persistence.
func parseAnalysis(text string) (*analysisResult, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var result analysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, NewAnalysisFormatError("invalid analysis data structure: %v", err)
	}

	switch {
	case result.PitchScore == nil:
		return nil, NewAnalysisFormatError("analysis response missing pitchScore")
	case result.BuyerIntent == nil:
		return nil, NewAnalysisFormatError("analysis response missing buyerIntent")
	case result.Objections == nil:
		return nil, NewAnalysisFormatError("analysis response missing objections")
	case result.Mistakes == nil:
		return nil, NewAnalysisFormatError("analysis response missing mistakes")
	case result.Insights == nil:
		return nil, NewAnalysisFormatError("analysis response missing insights")
	case result.FollowupMessage == nil:
		return nil, NewAnalysisFormatError("analysis response missing followupMessage")
	}

	return &result, nil
}

// ExtractJSONObject returns the first balanced brace-delimited JSON
// object in s. The model may wrap its JSON in prose, so everything
// before the first '{' and after its matching '}' is ignored. Braces
// inside string literals do not count toward balance.
func ExtractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", NewAnalysisFormatError("no JSON object found in model response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", NewAnalysisFormatError("unbalanced JSON object in model response")
}

// ClampScore clamps a model-reported score into [0,100] and rounds it
// to the nearest integer.
func ClampScore(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// truncateList drops entries beyond maxListItems, preserving order.
func truncateList[T any](items []T) []T {
	if len(items) > maxListItems {
		return items[:maxListItems]
	}
	return items
}
