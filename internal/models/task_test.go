package models

import (
	"testing"
	"time"
)

func TestScaleFor(t *testing.T) {
	tests := []struct {
		name     string
		taskType TaskType
		want     float64
	}{
		{"normal task", TaskTypeNormal, 10},
		{"redacao task", TaskTypeRedacao, 1000},
		{"unknown type falls back to normal", TaskType("quiz"), 10},
		{"empty type falls back to normal", TaskType(""), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleFor(tt.taskType); got != tt.want {
				t.Errorf("ScaleFor(%q) = %v, want %v", tt.taskType, got, tt.want)
			}
		})
	}
}

func TestNormalizeScore(t *testing.T) {
	score := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		score    *float64
		taskType TaskType
		want     *float64
	}{
		{"redacao 850 maps to 85 percent", score(850), TaskTypeRedacao, score(85)},
		{"normal 7.5 maps to 75 percent", score(7.5), TaskTypeNormal, score(75)},
		{"normal full score", score(10), TaskTypeNormal, score(100)},
		{"redacao zero", score(0), TaskTypeRedacao, score(0)},
		{"ungraded stays nil", nil, TaskTypeNormal, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeScore(tt.score, tt.taskType)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("NormalizeScore() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("NormalizeScore() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		taskType TaskType
		want     float64
	}{
		{"within normal range", 7.5, TaskTypeNormal, 7.5},
		{"above normal ceiling", 12, TaskTypeNormal, 10},
		{"negative clamps to zero", -3, TaskTypeNormal, 0},
		{"within redacao range", 850, TaskTypeRedacao, 850},
		{"above redacao ceiling", 1200, TaskTypeRedacao, 1000},
		{"negative redacao clamps to zero", -1, TaskTypeRedacao, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampScore(tt.score, tt.taskType); got != tt.want {
				t.Errorf("ClampScore(%v, %q) = %v, want %v", tt.score, tt.taskType, got, tt.want)
			}
		})
	}
}

func TestFormatScore(t *testing.T) {
	score := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		score    *float64
		taskType TaskType
		want     string
	}{
		{"ungraded", nil, TaskTypeNormal, "N/A"},
		{"normal one decimal", score(7.5), TaskTypeNormal, "7.5"},
		{"normal whole number keeps decimal", score(8), TaskTypeNormal, "8.0"},
		{"redacao integer", score(850), TaskTypeRedacao, "850"},
		{"redacao truncates decimals", score(850.7), TaskTypeRedacao, "850"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatScore(tt.score, tt.taskType); got != tt.want {
				t.Errorf("FormatScore(%v, %q) = %q, want %q", tt.score, tt.taskType, got, tt.want)
			}
		})
	}
}

func TestTaskIsPastDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	task := Task{DueDate: now.Add(time.Hour)}
	if task.IsPastDue(now) {
		t.Error("task due in one hour should not be past due")
	}

	task.DueDate = now.Add(-time.Hour)
	if !task.IsPastDue(now) {
		t.Error("task due one hour ago should be past due")
	}

	task.DueDate = now
	if task.IsPastDue(now) {
		t.Error("task due exactly now should not be past due")
	}
}
