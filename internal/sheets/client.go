package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GoOnOutdoor/janz-tracker/internal/models"
)

// DefaultTimeout limita cada troca com o relay.
const DefaultTimeout = 12 * time.Second

// Envelope é o invólucro {success, data, error} usado pelo relay e pelo
// script da planilha. Success é ponteiro para distinguir ausência de false.
type Envelope struct {
	Success *bool           `json:"success,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Failed informa se o envelope declarou falha explícita.
func (e Envelope) Failed() bool {
	return e.Success != nil && !*e.Success
}

// ClientOptions configura o gateway. Campos zerados recebem defaults.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Now        func() time.Time
}

// Client é o gateway remoto: lê e grava entradas através do relay, com tempo
// limitado e falhas de transporte traduzidas para a taxonomia do domínio.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	now        func() time.Time
}

// NewClient constrói o gateway apontado para a URL do relay (ou direto para o
// script, nos usos da CLI).
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		now:        now,
	}
}

type savePayload struct {
	Week      int             `json:"week"`
	Exercise  models.Exercise `json:"exercise"`
	Value     float64         `json:"value"`
	Notes     string          `json:"notes"`
	Date      string          `json:"date"`
	Mode      models.SaveMode `json:"mode"`
	Overwrite bool            `json:"overwrite"`
}

// FetchEntries lê todas as entradas da planilha. O array data passa pelo
// normalizador e perde as linhas com semana inválida; a ordem recebida é
// preservada, o servidor não garante ordenação.
func (c *Client) FetchEntries(ctx context.Context) ([]models.WorkoutEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "ler", Err: err}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Message: "Tempo esgotado ao ler dados do Sheets."}
		}
		return nil, &TransportError{Op: "ler", Err: err}
	}
	defer res.Body.Close()

	env, err := decodeEnvelope(res.Body)
	if err != nil {
		return nil, err
	}
	if !is2xx(res.StatusCode) || env.Failed() {
		return nil, &RemoteError{
			Message: messageOr(env.Error, "Não foi possível carregar dados do Sheets."),
			Status:  res.StatusCode,
		}
	}

	var rows []any
	if len(env.Data) > 0 {
		// data ausente ou fora do formato de array vira lista vazia
		_ = json.Unmarshal(env.Data, &rows)
	}
	return NormalizeAll(rows), nil
}

// SaveEntry resolve o modo canônico, carimba o instante atual como data e
// envia a entrada. O retorno é reconstruído do que foi enviado: o contrato
// assume que a planilha aceitou o payload tal qual, sem confiar em eco.
func (c *Client) SaveEntry(ctx context.Context, input models.SaveInput) (models.WorkoutEntry, error) {
	mode := input.ResolveMode()
	date := c.now().UTC().Format(time.RFC3339Nano)

	payload := savePayload{
		Week:      input.Week,
		Exercise:  input.Exercise,
		Value:     input.Value,
		Notes:     input.Notes,
		Date:      date,
		Mode:      mode,
		Overwrite: mode == models.ModeOverwrite,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.WorkoutEntry{}, &TransportError{Op: "salvar", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return models.WorkoutEntry{}, &TransportError{Op: "salvar", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.WorkoutEntry{}, &TimeoutError{Message: "Tempo esgotado ao salvar no Sheets."}
		}
		return models.WorkoutEntry{}, &TransportError{Op: "salvar", Err: err}
	}
	defer res.Body.Close()

	env, err := decodeEnvelope(res.Body)
	if err != nil {
		return models.WorkoutEntry{}, err
	}
	if !is2xx(res.StatusCode) || env.Failed() {
		return models.WorkoutEntry{}, &RemoteError{
			Message: messageOr(env.Error, "Falha ao salvar no Sheets."),
			Status:  res.StatusCode,
		}
	}

	return models.WorkoutEntry{
		Date:     date,
		Week:     input.Week,
		Exercise: input.Exercise,
		Value:    input.Value,
		Notes:    input.Notes,
	}, nil
}

func decodeEnvelope(body io.Reader) (Envelope, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return Envelope{}, &TransportError{Op: "ler a resposta", Err: err}
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return Envelope{}, &ResponseFormatError{Message: "Resposta vazia da API. Verifique os logs do servidor."}
	}
	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return Envelope{}, &ResponseFormatError{Message: "Resposta inválida da API. Verifique os logs do servidor."}
	}
	return env, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
