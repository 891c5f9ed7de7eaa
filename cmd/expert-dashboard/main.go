// Command expert-dashboard serves the expert system over HTTP as a JSON API,
// for dashboards that render traces, explanations and derivation graphs. One
// engine instance backs the server; the engine's coarse lock makes concurrent
// requests safe.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/config"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/graph"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/kb"
	"github.com/KrishnaHarish/medical-diagnosis-expert-system/pkg/expert/medical"
)

func main() {
	var (
		addr    = flag.String("addr", ":8080", "Listen address")
		kbPath  = flag.String("kb", "", "Knowledge-base YAML file (default: built-in medical rules)")
		verbose = flag.Bool("v", false, "Log reasoning events")
	)
	flag.Parse()

	opts := expert.Options{}
	if *verbose {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		opts.Logger = logger
	}

	es, err := buildSystem(*kbPath, opts)
	if err != nil {
		log.Fatal(err)
	}

	srv := &server{es: es}
	log.Printf("expert-dashboard listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, srv.routes()))
}

func buildSystem(kbPath string, opts expert.Options) (*expert.ExpertSystem, error) {
	if kbPath == "" {
		es := expert.New(opts)
		if err := medical.Populate(es); err != nil {
			return nil, err
		}
		return es, nil
	}
	loader := &config.Loader{Path: kbPath, Options: opts}
	es, _, err := loader.Load()
	return es, err
}

type server struct {
	es *expert.ExpertSystem
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/facts", s.handleFacts)
	mux.HandleFunc("POST /api/facts", s.handleAddFact)
	mux.HandleFunc("GET /api/rules", s.handleRules)
	mux.HandleFunc("POST /api/forward", s.handleForward)
	mux.HandleFunc("POST /api/backward", s.handleBackward)
	mux.HandleFunc("GET /api/explain", s.handleExplain)
	mux.HandleFunc("GET /api/graph.dot", s.handleGraph)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	return mux
}

func (s *server) handleFacts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"facts": s.es.Facts()})
}

func (s *server) handleAddFact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Statement  string   `json:"statement"`
		Confidence *float64 `json:"confidence"`
		Source     string   `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}
	source := req.Source
	if source == "" {
		source = kb.SourceUser + " (dashboard)"
	}
	fact, err := kb.NewFact(req.Statement, confidence, source)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.es.AddFact(fact); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusCreated, fact)
}

func (s *server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rules": s.es.OrderedRules()})
}

func (s *server) handleForward(w http.ResponseWriter, r *http.Request) {
	steps := s.es.ForwardChain()
	writeJSON(w, http.StatusOK, map[string]any{
		"session": s.es.Session(),
		"trace":   steps,
		"facts":   s.es.Facts(),
	})
}

func (s *server) handleBackward(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal string `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Goal == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("goal is required"))
		return
	}
	proven, steps := s.es.BackwardChain(req.Goal)
	writeJSON(w, http.StatusOK, map[string]any{
		"session": s.es.Session(),
		"goal":    req.Goal,
		"proven":  proven,
		"trace":   steps,
	})
}

func (s *server) handleExplain(w http.ResponseWriter, r *http.Request) {
	statement := r.URL.Query().Get("fact")
	if statement == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("fact query parameter is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fact":        statement,
		"explanation": s.es.ExplainFact(statement),
	})
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	statement := r.URL.Query().Get("fact")
	if statement == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("fact query parameter is required"))
		return
	}
	g := graph.FromExplanation(s.es.ExplainFact(statement))
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	fmt.Fprint(w, g.DOT())
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.es.ClearFacts()
	s.es.ClearTrace()
	writeJSON(w, http.StatusOK, map[string]any{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
