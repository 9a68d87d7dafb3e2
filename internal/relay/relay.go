package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoOnOutdoor/janz-tracker/internal/models"
	"github.com/GoOnOutdoor/janz-tracker/pkg/utils"
)

// Config é passada explicitamente na construção; o relay não lê ambiente.
type Config struct {
	// UpstreamURL é o endpoint do Apps Script. Vazio desabilita os
	// endpoints de dados com erro fixo de configuração.
	UpstreamURL string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *utils.Logger
}

// Relay repassa /api/sheets para o script da planilha, blindando o cliente de
// CORS e normalizando respostas malformadas (página HTML, corpo vazio) num
// envelope de erro JSON.
type Relay struct {
	upstreamURL string
	client      *http.Client
	log         *utils.Logger
}

func New(cfg Config) *Relay {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 12 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = utils.Log
	}
	return &Relay{
		upstreamURL: strings.TrimSpace(cfg.UpstreamURL),
		client:      client,
		log:         logger,
	}
}

// Register liga as rotas do relay e do catálogo estático.
func (rl *Relay) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/sheets", rl.handleGet)
	api.POST("/sheets", rl.handlePost)
	api.GET("/exercises", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": models.Exercises})
	})
	api.GET("/blocks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": models.Blocks})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (rl *Relay) handleGet(c *gin.Context) {
	if rl.upstreamURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "SHEETS_URL não configurado."})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, rl.upstreamURL, nil)
	if err != nil {
		rl.fail(c, http.StatusBadGateway, "Não foi possível comunicar com Sheets: "+err.Error())
		return
	}
	res, err := rl.client.Do(req)
	if err != nil {
		rl.log.Error("Sheets GET: " + err.Error())
		rl.fail(c, http.StatusBadGateway, "Não foi possível comunicar com Sheets: "+err.Error())
		return
	}
	defer res.Body.Close()

	env, ok := rl.readUpstream(res)

	if !is2xx(res.StatusCode) {
		msg := "Erro ao ler dados do Sheets."
		if ok {
			if e, _ := env["error"].(string); e != "" {
				msg = e
			}
		}
		c.JSON(res.StatusCode, gin.H{"success": false, "error": msg})
		return
	}
	if !ok {
		rl.fail(c, http.StatusBadGateway,
			"O Apps Script retornou HTML ou resposta vazia. Verifique se está publicado como Web App com permissões 'Anyone' e se a planilha tem a aba 'Dados'.")
		return
	}
	c.JSON(res.StatusCode, env)
}

func (rl *Relay) handlePost(c *gin.Context) {
	if rl.upstreamURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "SHEETS_URL não configurado."})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		rl.fail(c, http.StatusBadGateway, "Não foi possível enviar dados ao Sheets: "+err.Error())
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, rl.upstreamURL, strings.NewReader(string(body)))
	if err != nil {
		rl.fail(c, http.StatusBadGateway, "Não foi possível enviar dados ao Sheets: "+err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := rl.client.Do(req)
	if err != nil {
		rl.log.Error("Sheets POST: " + err.Error())
		rl.fail(c, http.StatusBadGateway, "Não foi possível enviar dados ao Sheets: "+err.Error())
		return
	}
	defer res.Body.Close()

	env, ok := rl.readUpstream(res)
	if !ok {
		rl.fail(c, http.StatusBadGateway,
			"O Apps Script retornou HTML ou resposta vazia no POST. Verifique se está publicado como Web App com permissões 'Anyone'.")
		return
	}

	// Sucesso = transporte 2xx e envelope sem success:false explícito.
	if !is2xx(res.StatusCode) || env["success"] == false {
		msg := "Falha ao salvar no Sheets."
		if e, _ := env["error"].(string); e != "" {
			msg = e
		}
		status := res.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}

	if len(env) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, env)
}

// readUpstream lê o corpo como texto antes de tentar JSON, para reconhecer as
// duas classes conhecidas de resposta malformada do Apps Script: página HTML
// (script não publicado como Web App) e corpo vazio. O content-type explícito
// do upstream vale mais que a heurística do `<` inicial.
func (rl *Relay) readUpstream(res *http.Response) (map[string]any, bool) {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		rl.log.Error("leitura do corpo upstream: " + err.Error())
		return nil, false
	}
	text := strings.TrimSpace(string(raw))

	contentType := res.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		rl.log.Error("Resposta HTML do Apps Script. Primeiros 200 caracteres: " + truncate(text, 200))
		return nil, false
	}
	if text == "" {
		rl.log.Error("Resposta vazia do Apps Script.")
		return nil, false
	}
	if !strings.Contains(contentType, "json") && strings.HasPrefix(text, "<") {
		rl.log.Error("Resposta com markup do Apps Script. Primeiros 200 caracteres: " + truncate(text, 200))
		return nil, false
	}

	var env map[string]any
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		rl.log.Error("parse do JSON upstream: " + err.Error() + "; conteúdo: " + truncate(text, 200))
		return nil, false
	}
	return env, true
}

func (rl *Relay) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
