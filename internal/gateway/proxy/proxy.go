package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Proxy
// ============================================================

// hopHeaders are not copied back from the upstream response.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

// Proxy пересылает запросы шлюза в сервис планировок.
type Proxy struct {
	upstream string
	client   *http.Client
}

func New(upstream string, timeout time.Duration) *Proxy {
	return &Proxy{
		upstream: strings.TrimRight(upstream, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *Proxy) Upstream() string {
	return p.upstream
}

// To проксирует запрос на фиксированный путь апстрима.
func (p *Proxy) To(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.Forward(c, p.upstream+path+query(c))
	}
}

// Strip проксирует запрос, отрезая prefix от пути: /api/v1/rooms/42 ->
// <upstream>/rooms/42. Query string сохраняется.
func (p *Proxy) Strip(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		path := strings.TrimPrefix(c.Path(), prefix)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return p.Forward(c, p.upstream+path+query(c))
	}
}

// Ping checks the upstream readiness probe.
func (p *Proxy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.upstream+"/health/ready", nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("reach upstream: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream not ready: status %d", resp.StatusCode)
	}
	return nil
}

func query(c fiber.Ctx) string {
	if qs := c.Request().URI().QueryString(); len(qs) > 0 {
		return "?" + string(qs)
	}
	return ""
}

// Forward проксирует любой метод с учетом multipart/raw.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	log.Printf("[PROXY] Request: %s %s", c.Method(), c.Path())
	log.Printf("[PROXY] Content-Type: %s, Content-Length: %d", c.Get("Content-Type"), len(c.Body()))
	log.Printf("[PROXY] Forwarding to: %s", targetURL)

	contentType := c.Get("Content-Type")
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return p.sendRaw(c, targetURL, contentType)
	}
	return p.sendMultipart(c, targetURL)
}

func (p *Proxy) sendRaw(c fiber.Ctx, targetURL, contentType string) error {
	var body io.Reader
	if data := c.Body(); len(data) > 0 {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	copyRequestHeaders(c, req)

	return p.do(c, req)
}

// sendMultipart пересобирает форму: fasthttp уже разобрал тело, поэтому
// файлы и поля пишутся заново с новой границей.
func (p *Proxy) sendMultipart(c fiber.Ctx, targetURL string) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("[PROXY] Failed to parse multipart: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": "invalid multipart data"})
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				log.Printf("[PROXY] Failed to open file %s: %v", fileHeader.Filename, err)
				return c.Status(400).JSON(fiber.Map{"error": "invalid multipart data"})
			}

			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(key), escapeQuotes(fileHeader.Filename)))
			if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
				h.Set("Content-Type", ct)
			} else {
				h.Set("Content-Type", "application/octet-stream")
			}

			part, err := writer.CreatePart(h)
			if err == nil {
				_, err = io.Copy(part, file)
			}
			file.Close()
			if err != nil {
				log.Printf("[PROXY] Failed to copy part: %v", err)
				return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
			}
		}
	}

	for key, values := range form.Value {
		for _, value := range values {
			writer.WriteField(key, value)
		}
	}
	writer.Close()

	req, err := http.NewRequestWithContext(c.Context(), c.Method(), targetURL, body)
	if err != nil {
		log.Printf("[PROXY] build multipart request error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "proxy failed"})
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	copyRequestHeaders(c, req)

	return p.do(c, req)
}

func (p *Proxy) do(c fiber.Ctx, req *http.Request) error {
	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyRequestHeaders(c fiber.Ctx, req *http.Request) {
	for _, key := range []string{"Authorization", "Accept"} {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(502).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if hopHeaders[key] || len(values) == 0 {
			continue
		}
		c.Set(key, values[0])
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
