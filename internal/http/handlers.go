package http

import (
	"net/http"
	"strings"

	"gastos/internal/interpreter"
	"gastos/internal/log"
	"gastos/internal/reply"
)

const (
	formBody      = "Body"
	formMessageID = "MessageSid"
)

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentHTTP)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Unparseable webhook form", log.FieldError, err)
		s.respond(w, reply.InvalidFormat)
		return
	}

	text := r.FormValue(formBody)
	sid := strings.TrimSpace(r.FormValue(formMessageID))
	if sid == "" {
		doc, _ := s.answer(r, text, "")
		writeTwiML(w, http.StatusOK, doc)
		return
	}

	if doc, ok := s.replies.Get(sid); ok {
		logger.InfoContext(ctx, "Replaying cached reply", log.FieldMessageID, sid)
		writeTwiML(w, http.StatusOK, doc)
		return
	}

	// Concurrent deliveries of one message share a single interpretation.
	v, _, _ := s.inflight.Do(sid, func() (any, error) {
		if doc, ok := s.replies.Get(sid); ok {
			return doc, nil
		}
		doc, cacheable := s.answer(r, text, sid)
		if cacheable {
			s.replies.Set(sid, doc)
		}
		return doc, nil
	})
	writeTwiML(w, http.StatusOK, v.([]byte))
}

// answer interprets text and renders the envelope. The result is cacheable
// unless the ledger could not be reached, so a provider retry gets another
// chance.
func (s *Server) answer(r *http.Request, text, sid string) ([]byte, bool) {
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentHTTP)

	res := s.interp.Interpret(ctx, text)
	msg, err := reply.Format(res)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to format reply",
			log.FieldResultKind, res.Kind,
			log.FieldMessageID, sid,
			log.FieldError, err)
		msg = reply.InternalError
	}

	doc, err := renderTwiML(msg)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to render TwiML", log.FieldError, err)
		doc, _ = renderTwiML(reply.InternalError)
		return doc, false
	}

	logger.InfoContext(ctx, "Webhook answered", log.FieldResultKind, res.Kind, log.FieldMessageID, sid)
	return doc, res.Kind != interpreter.KindStorageError
}

func (s *Server) respond(w http.ResponseWriter, text string) {
	doc, err := renderTwiML(text)
	if err != nil {
		http.Error(w, reply.InternalError, http.StatusInternalServerError)
		return
	}
	writeTwiML(w, http.StatusOK, doc)
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	doc, err := renderTwiML(reply.RateLimited)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}
	writeTwiML(w, http.StatusTooManyRequests, doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if s.ready != nil {
		if err := s.ready.Ping(r.Context()); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	_, _ = w.Write([]byte("ready"))
}
