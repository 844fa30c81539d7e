// internal/service/generator.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go_skill_track/internal/config"
	"go_skill_track/internal/middleware"
	"go_skill_track/internal/model"
)

// GenerateRequest はトラック生成サービスへの入力です
type GenerateRequest struct {
	SkillName    string          `json:"skill_name"`
	Kind         model.TrackKind `json:"kind"`
	HoursPerWeek float64         `json:"hours_per_week"`
}

// GeneratedTrack は生成サービスが返す学習トラックです
type GeneratedTrack struct {
	RootSkill string                     `json:"root_skill"`
	Nodes     map[string]model.SkillNode `json:"nodes"`
}

// Generator は学習トラックの生成を抽象化します。
// 本番ではAIサービスへのHTTP呼び出し、それ以外では静的テンプレートを使います。
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GeneratedTrack, error)
}

// --- StaticGenerator ---

// StaticGenerator は外部サービスなしで汎用テンプレートからトラックを組み立てます
type StaticGenerator struct{}

func (g *StaticGenerator) Generate(ctx context.Context, req *GenerateRequest) (*GeneratedTrack, error) {
	if req.Kind == model.TrackSkillProgram {
		return g.generateProgram(req.SkillName), nil
	}
	return g.generateMap(req.SkillName), nil
}

// generateMap は 基礎 → 中級 → 上級 の3段構成の汎用階層を返します
func (g *StaticGenerator) generateMap(skillName string) *GeneratedTrack {
	nodes := map[string]model.SkillNode{
		"root": {
			ID:          "root",
			Name:        skillName,
			Description: fmt.Sprintf("Master the skill of %s", skillName),
			Children:    []string{"fundamentals", "intermediate", "advanced"},
			Depth:       0,
			Resources: []model.SkillResource{
				{Type: "book", Name: fmt.Sprintf("Introduction to %s", skillName)},
			},
		},
		"fundamentals": {
			ID:             "fundamentals",
			Name:           fmt.Sprintf("%s Fundamentals", skillName),
			Description:    fmt.Sprintf("The basic concepts of %s", skillName),
			EstimatedHours: 20,
			ParentID:       "root",
			Children:       []string{"basics-1", "basics-2"},
			Depth:          1,
			Resources: []model.SkillResource{
				{Type: "course", Name: fmt.Sprintf("Fundamentals of %s", skillName)},
			},
		},
		"basics-1": {
			ID:             "basics-1",
			Name:           "Core Concepts",
			Description:    fmt.Sprintf("Essential knowledge for understanding %s", skillName),
			EstimatedHours: 10,
			ParentID:       "fundamentals",
			Depth:          2,
			Resources: []model.SkillResource{
				{Type: "article", Name: fmt.Sprintf("%s Core Concepts Explained", skillName)},
			},
		},
		"basics-2": {
			ID:             "basics-2",
			Name:           "Basic Techniques",
			Description:    fmt.Sprintf("Fundamental techniques in %s", skillName),
			EstimatedHours: 15,
			ParentID:       "fundamentals",
			Depth:          2,
			Resources: []model.SkillResource{
				{Type: "video", Name: fmt.Sprintf("Basic %s Techniques", skillName)},
			},
		},
		"intermediate": {
			ID:             "intermediate",
			Name:           fmt.Sprintf("Intermediate %s", skillName),
			Description:    fmt.Sprintf("Build on your %s fundamentals", skillName),
			EstimatedHours: 30,
			ParentID:       "root",
			Children:       []string{"intermediate-1", "intermediate-2"},
			Depth:          1,
			Resources: []model.SkillResource{
				{Type: "book", Name: fmt.Sprintf("%s in Practice", skillName)},
			},
		},
		"intermediate-1": {
			ID:             "intermediate-1",
			Name:           "Applied Techniques",
			Description:    fmt.Sprintf("Practical applications of %s", skillName),
			EstimatedHours: 15,
			ParentID:       "intermediate",
			Depth:          2,
			Resources: []model.SkillResource{
				{Type: "course", Name: fmt.Sprintf("Applied %s", skillName)},
			},
		},
		"intermediate-2": {
			ID:             "intermediate-2",
			Name:           "Problem Solving",
			Description:    fmt.Sprintf("Solving common problems in %s", skillName),
			EstimatedHours: 15,
			ParentID:       "intermediate",
			Depth:          2,
			Resources: []model.SkillResource{
				{Type: "tutorial", Name: fmt.Sprintf("%s Problem Solving Workshop", skillName)},
			},
		},
		"advanced": {
			ID:             "advanced",
			Name:           fmt.Sprintf("Advanced %s", skillName),
			Description:    fmt.Sprintf("Master advanced concepts in %s", skillName),
			EstimatedHours: 40,
			ParentID:       "root",
			Children:       []string{"advanced-1", "advanced-2"},
			Depth:          1,
			Resources: []model.SkillResource{
				{Type: "project", Name: fmt.Sprintf("Build an Advanced %s Project", skillName)},
			},
		},
		"advanced-1": {
			ID:             "advanced-1",
			Name:           "Expert Techniques",
			Description:    fmt.Sprintf("Advanced methods used by %s experts", skillName),
			EstimatedHours: 20,
			ParentID:       "advanced",
			Depth:          2,
			Resources: []model.SkillResource{
				{Type: "course", Name: fmt.Sprintf("Expert %s Techniques", skillName)},
			},
		},
		"advanced-2": {
			ID:             "advanced-2",
			Name:           "Mastery Project",
			Description:    fmt.Sprintf("Comprehensive project to demonstrate %s mastery", skillName),
			EstimatedHours: 20,
			ParentID:       "advanced",
			Depth:          2,
			Resources: []model.SkillResource{
				{Type: "project", Name: fmt.Sprintf("%s Mastery Project", skillName)},
			},
		},
	}
	return &GeneratedTrack{RootSkill: skillName, Nodes: nodes}
}

// generateProgram はルート直下に30個の日次ノードを並べたフラットな構成を返します。
// ノードIDは day-01 〜 day-30 で、辞書順と日付順が一致します。
func (g *StaticGenerator) generateProgram(skillName string) *GeneratedTrack {
	nodes := make(map[string]model.SkillNode, config.SkillProgramDays+1)

	children := make([]string, 0, config.SkillProgramDays)
	for day := 1; day <= config.SkillProgramDays; day++ {
		nodeID := fmt.Sprintf("day-%02d", day)
		children = append(children, nodeID)
		nodes[nodeID] = model.SkillNode{
			ID:             nodeID,
			Name:           fmt.Sprintf("Day %d: %s", day, skillName),
			Description:    fmt.Sprintf("Day %d of your %d-day %s program", day, config.SkillProgramDays, skillName),
			EstimatedHours: 1,
			ParentID:       "root",
			Depth:          1,
		}
	}
	nodes["root"] = model.SkillNode{
		ID:          "root",
		Name:        fmt.Sprintf("%d-Day %s Program", config.SkillProgramDays, skillName),
		Description: fmt.Sprintf("A %d-day structured program to learn %s", config.SkillProgramDays, skillName),
		Children:    children,
		Depth:       0,
	}
	return &GeneratedTrack{RootSkill: skillName, Nodes: nodes}
}

// --- HTTPGenerator ---

// HTTPGenerator は外部のAI生成サービスをHTTPで呼び出します
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPGenerator(endpoint, apiKey string) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, req *GenerateRequest) (*GeneratedTrack, error) {
	logger := middleware.GetLogger(ctx)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Error("Generator service request failed", "error", err, "endpoint", g.endpoint)
		return nil, fmt.Errorf("call generator service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error("Generator service returned non-OK status", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("generator service status %d", resp.StatusCode)
	}

	var track GeneratedTrack
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		logger.Error("Failed to decode generator response", "error", err)
		return nil, fmt.Errorf("decode generator response: %w", err)
	}
	if len(track.Nodes) == 0 {
		return nil, fmt.Errorf("generator returned empty track")
	}

	return &track, nil
}

// --- NewGenerator ファクトリ関数 ---
func NewGenerator(cfg *config.Config) Generator {
	logger := slog.Default()
	switch cfg.Generator.Type {
	case "http":
		if cfg.Generator.Endpoint == "" {
			logger.Warn("Generator type is 'http' but endpoint is empty, falling back to static generator")
			return &StaticGenerator{}
		}
		logger.Info("Initializing HTTP generator...", "endpoint", cfg.Generator.Endpoint)
		return NewHTTPGenerator(cfg.Generator.Endpoint, cfg.Generator.APIKey)
	case "static":
		logger.Info("Initializing static generator...")
		return &StaticGenerator{}
	default:
		logger.Warn("Unknown generator type, defaulting to static", "type", cfg.Generator.Type)
		return &StaticGenerator{}
	}
}
