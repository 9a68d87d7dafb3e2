package models

import (
	"fmt"
	"time"
)

// Exercise identifica um exercício do programa. Conjunto fechado.
type Exercise string

const (
	ExerciseBarras Exercise = "barras"
	ExerciseLSit   Exercise = "lsit"
	ExerciseDips   Exercise = "dips"
)

// ParseExercise valida contra o conjunto fechado; qualquer valor fora vira barras.
func ParseExercise(v string) Exercise {
	switch Exercise(v) {
	case ExerciseBarras, ExerciseLSit, ExerciseDips:
		return Exercise(v)
	}
	return ExerciseBarras
}

// WorkoutEntry é uma medição registrada na planilha.
type WorkoutEntry struct {
	Date     string   `json:"date"`
	Week     int      `json:"week"`
	Exercise Exercise `json:"exercise"`
	Value    float64  `json:"value"`
	Notes    string   `json:"notes"`
}

// ParsedDate interpreta o campo Date. Datas ilegíveis viram o zero de time.Time,
// ou seja, perdem qualquer disputa de recência.
func (e WorkoutEntry) ParsedDate() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SaveMode define a semântica de gravação.
type SaveMode string

const (
	ModeAppend    SaveMode = "append"
	ModeOverwrite SaveMode = "overwrite"
)

// SaveInput é uma entrada ainda sem data, como chega do formulário ou da CLI.
// Mode e o flag legado Overwrite podem vir juntos; ResolveMode decide.
type SaveInput struct {
	Week      int      `json:"week"`
	Exercise  Exercise `json:"exercise"`
	Value     float64  `json:"value"`
	Notes     string   `json:"notes"`
	Mode      SaveMode `json:"mode,omitempty"`
	Overwrite *bool    `json:"overwrite,omitempty"`
}

// ResolveMode reduz mode + flag legado a um único modo canônico.
// Mode explícito vence; o flag sozinho mapeia para overwrite; nada vira append.
func (in SaveInput) ResolveMode() SaveMode {
	switch in.Mode {
	case ModeAppend, ModeOverwrite:
		return in.Mode
	}
	if in.Overwrite != nil && *in.Overwrite {
		return ModeOverwrite
	}
	return ModeAppend
}

// Key é a chave exercício:semana usada para flags de gravação e serialização.
func Key(week int, exercise Exercise) string {
	return fmt.Sprintf("%s:%d", exercise, week)
}

// GroupByWeek agrupa as entradas por chave exercício:semana.
func GroupByWeek(entries []WorkoutEntry) map[string][]WorkoutEntry {
	grouped := make(map[string][]WorkoutEntry)
	for _, entry := range entries {
		k := Key(entry.Week, entry.Exercise)
		grouped[k] = append(grouped[k], entry)
	}
	return grouped
}

// Latest devolve a entrada mais recente da lista, decidido por Date.
func Latest(entries []WorkoutEntry) (WorkoutEntry, bool) {
	if len(entries) == 0 {
		return WorkoutEntry{}, false
	}
	best := entries[0]
	for _, entry := range entries[1:] {
		if entry.ParsedDate().After(best.ParsedDate()) {
			best = entry
		}
	}
	return best, true
}
