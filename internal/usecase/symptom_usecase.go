package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/infrastructure/llm"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyQuery          = errors.New("please provide a question or describe your symptoms")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

var digitPattern = regexp.MustCompile(`\d+`)

type SymptomUsecase interface {
	Search(ctx context.Context, req *dto.SymptomSearchRequest) (*dto.SymptomSearchResponse, error)
}

type symptomUsecase struct {
	log    *logrus.Logger
	client llm.ChatClient
}

func NewSymptomUsecase(log *logrus.Logger, client llm.ChatClient) SymptomUsecase {
	return &symptomUsecase{
		log:    log,
		client: client,
	}
}

func (u *symptomUsecase) Search(ctx context.Context, req *dto.SymptomSearchRequest) (*dto.SymptomSearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	level := req.Level
	if level == "" {
		level = LevelInitial
	}

	queryType := DetectQueryType(query)

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt(queryType, level)})
	for _, m := range req.History {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	userMessage := query
	if req.Context != nil && strings.TrimSpace(req.Context.OriginalSymptoms) != "" {
		userMessage = fmt.Sprintf("Context: Previous symptoms were \"%s\".\n\nCurrent question: %s", req.Context.OriginalSymptoms, query)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	raw, err := u.client.Complete(ctx, messages)
	if err != nil {
		u.log.WithField("query_type", queryType).Errorf("Failed to get symptom checker completion: %+v", err)
		return nil, ErrUpstreamUnavailable
	}

	text, status := ParseConversationStatus(raw)

	return &dto.SymptomSearchResponse{
		Response:         text,
		QueryType:        string(queryType),
		Level:            level,
		RequiresFollowUp: status.RequiresFollowUp,
		NotTrained:       status.NotTrained,
		AskingLocation:   status.AskingLocation,
	}, nil
}

// DetectQueryType applies keyword rules in priority order
func DetectQueryType(query string) QueryType {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, "i live in", "my location is", "i am located in", "near", "locality"):
		return QueryLocationProvided
	case containsAny(q, "yes, i have more symptoms", "i also have", "additional symptoms"):
		return QueryMoreSymptoms
	case containsAny(q, "tell me more details", "more information", "explain further",
		"what could be serious", "worst case", "severe conditions"):
		return QueryMoreDetails
	case containsAny(q, "what specialist", "which doctor", "what type of doctor"):
		return QuerySpecialistRecommendation
	case containsAny(q, "home care", "home remedies", "what can i do at home", "self care"):
		return QueryHomeCare
	case strings.Contains(q, "for") && containsAny(q, "days", "weeks", "months"):
		return QueryDurationProvided
	case containsAny(q, "severity", "pain level", "scale of"),
		strings.Contains(q, "/") && digitPattern.MatchString(q):
		return QuerySeverityProvided
	case containsAny(q, "hospital", "clinic", "nearest medical", "emergency room"):
		return QueryHospitalRequest
	case containsAny(q, "what is", "explain", "how does", "why does"):
		return QueryGeneralQuestion
	default:
		return QuerySymptomAnalysis
	}
}

// ConversationStatus drives the client's follow-up prompts
type ConversationStatus struct {
	RequiresFollowUp bool `json:"requires_follow_up"`
	AskingLocation   bool `json:"asking_location"`
	NotTrained       bool `json:"not_trained"`
}

// ParseConversationStatus strips the trailing STATUS line from a completion
// and decodes it. Without a well-formed line the flags come from phrase
// matching on the text.
func ParseConversationStatus(raw string) (string, ConversationStatus) {
	text := strings.TrimRight(raw, " \t\r\n")

	var status ConversationStatus
	parsed := false

	if idx := strings.LastIndex(text, "STATUS:"); idx >= 0 {
		line := text[idx:]
		if nl := strings.IndexByte(line, '\n'); nl < 0 {
			payload := strings.TrimSpace(line[len("STATUS:"):])
			if err := json.Unmarshal([]byte(payload), &status); err == nil {
				parsed = true
				text = strings.TrimRight(text[:idx], " \t\r\n")
			}
		}
	}

	if !parsed {
		status = ConversationStatus{
			RequiresFollowUp: containsAny(text, "Would you like", "Do you need", "Can you tell me"),
			NotTrained:       containsAny(text, "I haven't been trained", "I don't have information", "beyond my knowledge"),
			AskingLocation:   containsAny(text, "your location", "your locality", "where are you located"),
		}
	}

	if status.NotTrained {
		status.RequiresFollowUp = false
	}
	return text, status
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
