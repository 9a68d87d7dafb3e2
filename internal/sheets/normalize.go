package sheets

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/GoOnOutdoor/janz-tracker/internal/models"
)

// fieldAliases lista, por campo lógico, os nomes candidatos na ordem de
// resolução: o primeiro presente vence. A planilha é editada à mão e mistura
// inglês com português; acrescentar um terceiro idioma é mudança de dados.
var fieldAliases = map[string][]string{
	"week":     {"week", "semana"},
	"value":    {"value", "valor"},
	"exercise": {"exercise", "exercicio", "exercício"},
	"date":     {"date", "data"},
	"notes":    {"notes", "notas"},
}

func firstPresent(raw map[string]any, field string) (any, bool) {
	for _, alias := range fieldAliases[field] {
		if v, ok := raw[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// toNumber aplica a coerção numérica padrão. Qualquer falha vira 0 em vez de
// propagar: linha malformada deve aparecer zerada, nunca derrubar a carga.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// NormalizeEntry converte um registro cru da planilha numa WorkoutEntry
// estrita. Nunca falha: todo campo malformado degrada para um default seguro.
// O filtro de semanas inválidas (week <= 0) acontece na coleção, não aqui.
func NormalizeEntry(raw map[string]any) models.WorkoutEntry {
	entry := models.WorkoutEntry{
		Exercise: models.ExerciseBarras,
		Date:     time.Now().UTC().Format(time.RFC3339Nano),
	}

	if v, ok := firstPresent(raw, "week"); ok {
		entry.Week = int(toNumber(v))
	}
	if v, ok := firstPresent(raw, "value"); ok {
		entry.Value = toNumber(v)
	}
	if v, ok := firstPresent(raw, "exercise"); ok {
		if s, ok := nonEmptyString(v); ok {
			entry.Exercise = models.ParseExercise(s)
		}
	}
	if v, ok := firstPresent(raw, "date"); ok {
		if s, ok := nonEmptyString(v); ok {
			entry.Date = s
		}
	}
	if v, ok := firstPresent(raw, "notes"); ok {
		if s, ok := nonEmptyString(v); ok {
			entry.Notes = s
		}
	}
	return entry
}

// NormalizeAll normaliza a lista crua e descarta entradas com semana inválida,
// preservando a ordem recebida.
func NormalizeAll(rows []any) []models.WorkoutEntry {
	entries := make([]models.WorkoutEntry, 0, len(rows))
	for _, row := range rows {
		raw, ok := row.(map[string]any)
		if !ok {
			continue
		}
		entry := NormalizeEntry(raw)
		if entry.Week > 0 {
			entries = append(entries, entry)
		}
	}
	return entries
}
