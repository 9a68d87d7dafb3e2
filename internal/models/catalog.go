package models

// TotalWeeks é a duração do programa periodizado.
const TotalWeeks = 8

// ExerciseConfig descreve um exercício do catálogo fixo: meta, unidade e cor
// usadas pela interface. Dado de referência, nunca persistido.
type ExerciseConfig struct {
	ID     Exercise `json:"id"`
	Name   string   `json:"name"`
	Icon   string   `json:"icon"`
	Target float64  `json:"target"`
	Unit   string   `json:"unit"`
	Color  string   `json:"color"`
}

// Exercises é o catálogo dos três exercícios do programa.
var Exercises = []ExerciseConfig{
	{ID: ExerciseBarras, Name: "Barras", Icon: "💪", Target: 15, Unit: "reps", Color: "#3B82F6"},
	{ID: ExerciseLSit, Name: "L-Sit", Icon: "🔥", Target: 30, Unit: "seg", Color: "#F59E0B"},
	{ID: ExerciseDips, Name: "Dips", Icon: "🎯", Target: 20, Unit: "reps", Color: "#10B981"},
}

// ExerciseByID busca a configuração de um exercício no catálogo.
func ExerciseByID(id Exercise) (ExerciseConfig, bool) {
	for _, cfg := range Exercises {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return ExerciseConfig{}, false
}

// Block é uma fase nomeada do programa. Só anota as semanas, sem efeito
// sobre os dados.
type Block struct {
	Name  string `json:"name"`
	Weeks []int  `json:"weeks"`
	Color string `json:"color"`
}

// Blocks são as quatro fases do programa de 8 semanas.
var Blocks = []Block{
	{Name: "ATIVAÇÃO", Weeks: []int{1, 2}, Color: "#3B82F6"},
	{Name: "FORÇA", Weeks: []int{3, 4}, Color: "#10B981"},
	{Name: "PICO", Weeks: []int{5, 6}, Color: "#F59E0B"},
	{Name: "CONSOLIDAÇÃO", Weeks: []int{7, 8}, Color: "#EF4444"},
}

// BlockForWeek devolve a fase que contém a semana dada.
func BlockForWeek(week int) (Block, bool) {
	for _, b := range Blocks {
		for _, w := range b.Weeks {
			if w == week {
				return b, true
			}
		}
	}
	return Block{}, false
}

// Progress resume o último valor registrado contra a meta de um exercício.
type Progress struct {
	Exercise Exercise `json:"exercise"`
	Week     int      `json:"week"`
	Value    float64  `json:"value"`
	Target   float64  `json:"target"`
	Unit     string   `json:"unit"`
	Percent  float64  `json:"percent"`
}

// ProgressFor calcula o progresso de um exercício numa semana a partir das
// entradas carregadas. Sem entrada para o par, devolve false.
func ProgressFor(entries []WorkoutEntry, week int, exercise Exercise) (Progress, bool) {
	cfg, ok := ExerciseByID(exercise)
	if !ok {
		return Progress{}, false
	}
	var matches []WorkoutEntry
	for _, entry := range entries {
		if entry.Week == week && entry.Exercise == exercise {
			matches = append(matches, entry)
		}
	}
	latest, ok := Latest(matches)
	if !ok {
		return Progress{}, false
	}
	p := Progress{
		Exercise: exercise,
		Week:     week,
		Value:    latest.Value,
		Target:   cfg.Target,
		Unit:     cfg.Unit,
	}
	if cfg.Target > 0 {
		p.Percent = 100 * latest.Value / cfg.Target
	}
	return p, true
}
