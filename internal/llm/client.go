package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"resume-matcher-backend/pkg/logger"
)

const systemPrompt = `You are an expert HR recruiter and technical interviewer with years of experience in candidate evaluation. Your task is to analyze candidate resumes against job descriptions and provide detailed, actionable feedback.

You must respond ONLY with valid JSON format. Do not include any explanatory text before or after the JSON.

The JSON must have this exact structure:
{
    "relevance_score": <number between 0-100>,
    "matched_skills": ["skill1", "skill2", ...],
    "missing_skills": ["skill1", "skill2", ...],
    "strengths": ["strength1", "strength2", ...],
    "weaknesses": ["weakness1", "weakness2", ...],
    "experience_match": <number between 0-100>,
    "education_match": <number between 0-100>,
    "feedback": "detailed feedback summary"
}

Guidelines for analysis:
- relevance_score: Overall fit (0-100), consider skills, experience, education
- matched_skills: Skills from job description that candidate has
- missing_skills: Required/preferred skills candidate lacks
- strengths: Candidate's strong points relevant to the role
- weaknesses: Areas where candidate could improve
- experience_match: How well experience level matches (0-100)
- education_match: How well education matches requirements (0-100)
- feedback: 2-3 paragraphs with actionable insights

Be objective, fair, and constructive in your evaluation.`

// Config holds the Azure OpenAI connection settings.
type Config struct {
	Endpoint    string
	APIKey      string
	Deployment  string
	APIVersion  string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client issues chat-completion requests against an Azure OpenAI deployment.
type Client struct {
	cfg        Config
	retry      retryConfig
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		retry:      defaultRetryConfig,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// AnalyzeRequest carries one resume/job pair for evaluation.
type AnalyzeRequest struct {
	ResumeText      string
	JobTitle        string
	JobDescription  string
	JobRequirements *string
}

// Analysis is the validated model output.
type Analysis struct {
	RelevanceScore  float64
	MatchedSkills   []string
	MissingSkills   []string
	Strengths       []string
	Weaknesses      []string
	ExperienceMatch *float64
	EducationMatch  *float64
	Feedback        string
}

// Outcome always carries metadata; Err is set on any failure (transport,
// exhausted retries, JSON decode, schema validation). Nothing panics past
// this boundary.
type Outcome struct {
	Analysis   *Analysis
	Err        error
	Model      string
	TokensUsed int64
	Duration   time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat map[string]any `json:"response_format"`
}

type usage struct {
	TotalTokens int64 `json:"total_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *usage `json:"usage"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze evaluates one resume against one job posting. The HTTP call is
// retried on transient failures; schema validation failures are terminal for
// the invocation.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (outcome Outcome) {
	outcome = Outcome{Model: c.cfg.Model}
	start := time.Now()
	defer func() {
		outcome.Duration = time.Since(start)
	}()

	jobDescription := req.JobDescription
	if req.JobRequirements != nil && *req.JobRequirements != "" {
		jobDescription += "\n\nREQUIREMENTS:\n" + *req.JobRequirements
	}

	userPrompt := fmt.Sprintf(`Analyze this candidate's resume for the following job position.

JOB TITLE:
%s

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Provide a comprehensive analysis in the specified JSON format. Be thorough but concise.`,
		req.JobTitle, jobDescription, req.ResumeText)

	content, u, err := doWithRetry(ctx, c.retry, func() (string, *usage, error) {
		return c.createChatCompletion(ctx, []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		})
	})
	if u != nil {
		outcome.TokensUsed = u.TotalTokens
	}
	if err != nil {
		outcome.Err = err
		return outcome
	}

	analysis, err := parseAnalysisResponse(content)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Analysis = analysis
	logger.Log.Info("analysis completed",
		"relevance_score", analysis.RelevanceScore,
		"tokens_used", outcome.TokensUsed)
	return outcome
}

func (c *Client) createChatCompletion(ctx context.Context, messages []chatMessage) (string, *usage, error) {
	reqBody := chatRequest{
		Messages:       messages,
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.cfg.Endpoint, c.cfg.Deployment, c.cfg.APIVersion)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return "", nil, err
	}
	httpReq.Header.Set("api-key", c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("chat completion failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
		}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", nil, fmt.Errorf("decode chat response: %w", err)
	}
	if result.Error.Message != "" {
		return "", result.Usage, fmt.Errorf("chat completion error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", result.Usage, fmt.Errorf("no response choices returned")
	}

	return result.Choices[0].Message.Content, result.Usage, nil
}
