package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoOnOutdoor/janz-tracker/internal/models"
	"github.com/GoOnOutdoor/janz-tracker/pkg/utils"
)

// Gateway é o que o manager precisa do cliente Sheets.
type Gateway interface {
	FetchEntries(ctx context.Context) ([]models.WorkoutEntry, error)
	SaveEntry(ctx context.Context, input models.SaveInput) (models.WorkoutEntry, error)
}

// trackedEntry envolve a entrada com a marca do placeholder otimista.
// pendingID vazio significa entrada confirmada. A marca fica fora da entrada
// exposta: carimbo de data não é identidade confiável sob concorrência.
type trackedEntry struct {
	models.WorkoutEntry
	pendingID string
}

// ManagerOptions configura o manager. Campos zerados recebem defaults.
type ManagerOptions struct {
	Gateway Gateway
	Logger  *utils.Logger
	Now     func() time.Time
	NewID   func() string
}

// Manager é o dono do estado local: a coleção de entradas, os flags de
// gravação por chave exercício:semana, o flag de carga e a última mensagem de
// erro. Mutação só por Load e Save; o resto são projeções de leitura.
//
// Gravações na mesma chave serializam num mutex por chave, então duas
// chamadas concorrentes para o mesmo par semana/exercício resolvem numa ordem
// determinística. Chaves diferentes seguem em paralelo.
type Manager struct {
	gateway Gateway
	log     *utils.Logger
	now     func() time.Time
	newID   func() string

	mu      sync.RWMutex
	entries []trackedEntry
	saving  map[string]bool
	loading bool
	lastErr string

	keyMu sync.Mutex
	keys  map[string]*sync.Mutex
}

func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = utils.Log
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Manager{
		gateway: opts.Gateway,
		log:     logger,
		now:     now,
		newID:   newID,
		saving:  make(map[string]bool),
		keys:    make(map[string]*sync.Mutex),
	}
}

// Load recarrega a coleção inteira da planilha. Sucesso substitui o estado
// local por completo; falha registra a mensagem e mantém o que havia. O flag
// de carga sempre limpa ao final.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loading = true
	m.lastErr = ""
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	entries, err := m.gateway.FetchEntries(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.log.Error("load: " + err.Error())
		m.lastErr = err.Error()
		return err
	}
	tracked := make([]trackedEntry, len(entries))
	for i, entry := range entries {
		tracked[i] = trackedEntry{WorkoutEntry: entry}
	}
	m.entries = tracked
	return nil
}

// Save aplica a entrada otimista na hora, grava no remoto e depois colapsa
// para a versão confirmada ou restaura o snapshot anterior. A falha sempre
// volta para o chamador depois da contabilidade local.
func (m *Manager) Save(ctx context.Context, input models.SaveInput) (models.WorkoutEntry, error) {
	mode := input.ResolveMode()
	key := models.Key(input.Week, input.Exercise)

	lock := m.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	m.setSaving(key, true)
	defer m.setSaving(key, false)

	placeholder := trackedEntry{
		WorkoutEntry: models.WorkoutEntry{
			Date:     m.now().UTC().Format(time.RFC3339Nano),
			Week:     input.Week,
			Exercise: input.Exercise,
			Value:    input.Value,
			Notes:    input.Notes,
		},
		pendingID: m.newID(),
	}

	m.mu.Lock()
	snapshot := append([]trackedEntry(nil), m.entries...)
	base := m.entries
	if mode == models.ModeOverwrite {
		base = withoutPair(base, input.Week, input.Exercise)
	}
	m.entries = append(base, placeholder)
	m.lastErr = ""
	m.mu.Unlock()

	saved, err := m.gateway.SaveEntry(ctx, input)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// Só restaura se o placeholder ainda estiver lá; outra mutação
		// pode tê-lo removido no meio do caminho.
		if hasPending(m.entries, placeholder.pendingID) {
			m.entries = snapshot
		}
		m.log.Error("save " + key + ": " + err.Error())
		m.lastErr = err.Error()
		return models.WorkoutEntry{}, err
	}

	remaining := withoutPending(m.entries, placeholder.pendingID)
	if mode == models.ModeOverwrite {
		remaining = withoutPair(remaining, input.Week, input.Exercise)
	}
	m.entries = append(remaining, trackedEntry{WorkoutEntry: saved})
	return saved, nil
}

// LatestFor devolve a entrada mais recente para o par semana/exercício.
// Consulta pura, usada para pré-preencher o formulário.
func (m *Manager) LatestFor(week int, exercise models.Exercise) (models.WorkoutEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []models.WorkoutEntry
	for _, entry := range m.entries {
		if entry.Week == week && entry.Exercise == exercise {
			matches = append(matches, entry.WorkoutEntry)
		}
	}
	return models.Latest(matches)
}

// Entries devolve uma cópia da coleção, na ordem interna atual.
func (m *Manager) Entries() []models.WorkoutEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]models.WorkoutEntry, len(m.entries))
	for i, entry := range m.entries {
		entries[i] = entry.WorkoutEntry
	}
	return entries
}

// Saving informa se há gravação em andamento para o par.
func (m *Manager) Saving(week int, exercise models.Exercise) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saving[models.Key(week, exercise)]
}

// Loading informa se um Load está em andamento.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Err devolve a última mensagem de erro registrada, vazia se nenhuma.
func (m *Manager) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) keyLock(key string) *sync.Mutex {
	m.keyMu.Lock()
	defer m.keyMu.Unlock()
	lock, ok := m.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		m.keys[key] = lock
	}
	return lock
}

func (m *Manager) setSaving(key string, v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v {
		m.saving[key] = true
		return
	}
	delete(m.saving, key)
}

func withoutPair(entries []trackedEntry, week int, exercise models.Exercise) []trackedEntry {
	kept := make([]trackedEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Week == week && entry.Exercise == exercise {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func withoutPending(entries []trackedEntry, pendingID string) []trackedEntry {
	kept := make([]trackedEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.pendingID == pendingID {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func hasPending(entries []trackedEntry, pendingID string) bool {
	for _, entry := range entries {
		if entry.pendingID == pendingID {
			return true
		}
	}
	return false
}
