package http

import (
	"net/http"
	"strings"
	"time"

	"bountyhub/internal/http/handlers"
	"bountyhub/internal/http/metrics"
	httpmw "bountyhub/internal/http/middleware"
)

type RouterDependencies struct {
	QuestionHandler *handlers.QuestionHandler
	WorkflowHandler *handlers.WorkflowHandler
	MetricsHandler  *handlers.MetricsHandler
	AuthMiddleware  *httpmw.AuthMiddleware
	Limiter         httpmw.Limiter
	Metrics         *metrics.Collector
	RequestTimeout  time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/questions":
			r.deps.QuestionHandler.List(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/questions/"):
			r.deps.QuestionHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/questions") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/questions":
		createLimited := httpmw.RateLimit(r.deps.Limiter, httpmw.PolicyCreateQuestion, httpmw.ClientIP)
		createLimited(http.HandlerFunc(r.deps.QuestionHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/questions/") && strings.Count(path, "/") == 2:
		r.deps.QuestionHandler.Edit(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/questions/") && strings.Count(path, "/") == 2:
		r.deps.QuestionHandler.Delete(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/questions/") && strings.HasSuffix(path, "/volunteer"):
		r.deps.WorkflowHandler.Volunteer(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/questions/") && strings.HasSuffix(path, "/select"):
		r.deps.WorkflowHandler.Select(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/questions/") && strings.HasSuffix(path, "/answers"):
		r.deps.WorkflowHandler.SubmitAnswer(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/questions/") && strings.HasSuffix(path, "/accept"):
		r.deps.WorkflowHandler.Accept(w, req)
		return
	}

	http.NotFound(w, req)
}
