package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/pluginui/internal/ctxlog"
	"github.com/specialistvlad/pluginui/internal/defaults"
	"github.com/specialistvlad/pluginui/internal/registry"
	"github.com/specialistvlad/pluginui/internal/uiid"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

const maxOverrideBytes = 64 << 10

type handler struct {
	reg    *registry.Registry
	logger *slog.Logger
}

// NewHandler builds the inspection router. A nil gatherer leaves /metrics
// unrouted.
func NewHandler(reg *registry.Registry, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	h := &handler{reg: reg, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/registry", h.snapshot).Methods(http.MethodGet)
	r.HandleFunc("/components/{id}", h.component).Methods(http.MethodGet)
	r.HandleFunc("/plugins/{id}/components", h.pluginComponents).Methods(http.MethodGet)
	r.HandleFunc("/defaults/{id}", h.defaultBaseline).Methods(http.MethodGet)
	r.HandleFunc("/defaults/{id}/render", h.defaultOverride).Methods(http.MethodPost)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

type snapshotResponse struct {
	Owners     map[uiid.ComponentID]uiid.PluginID   `json:"owners"`
	Components map[uiid.PluginID][]uiid.ComponentID `json:"components"`
}

func (h *handler) snapshot(w http.ResponseWriter, r *http.Request) {
	s := h.reg.Snapshot()
	h.writeJSON(w, http.StatusOK, snapshotResponse{Owners: s.Owners, Components: s.Components})
}

type componentResponse struct {
	ComponentID uiid.ComponentID `json:"componentId"`
	Owner       uiid.PluginID    `json:"owner"`
}

func (h *handler) component(w http.ResponseWriter, r *http.Request) {
	c := uiid.ComponentID(mux.Vars(r)["id"])
	owner, ok := h.reg.ComponentOwner(c)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("component '%s' is not registered", c))
		return
	}
	h.writeJSON(w, http.StatusOK, componentResponse{ComponentID: c, Owner: owner})
}

type pluginResponse struct {
	PluginID   uiid.PluginID      `json:"pluginId"`
	Components []uiid.ComponentID `json:"components"`
}

func (h *handler) pluginComponents(w http.ResponseWriter, r *http.Request) {
	p := uiid.PluginID(mux.Vars(r)["id"])
	comps, ok := h.reg.RegisteredComponentsForPlugin(p)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("plugin '%s' owns no components", p))
		return
	}
	h.writeJSON(w, http.StatusOK, pluginResponse{PluginID: p, Components: comps})
}

type elementResponse struct {
	ID    defaults.ID     `json:"id"`
	Type  string          `json:"type"`
	Props json.RawMessage `json:"props"`
}

func (h *handler) defaultBaseline(w http.ResponseWriter, r *http.Request) {
	h.renderDefault(w, r, nil)
}

func (h *handler) defaultOverride(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxOverrideBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	ty, err := ctyjson.ImpliedType(body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid override props: %v", err))
		return
	}
	override, err := ctyjson.Unmarshal(body, ty)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid override props: %v", err))
		return
	}
	h.renderDefault(w, r, &override)
}

func (h *handler) renderDefault(w http.ResponseWriter, r *http.Request, override *cty.Value) {
	id := defaults.ID(mux.Vars(r)["id"])
	ctx := ctxlog.WithLogger(r.Context(), h.logger)

	el, err := h.reg.Default(ctx, id, override)
	switch {
	case errors.Is(err, defaults.ErrUnknownDefaultID):
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	props, err := ctyjson.Marshal(el.Props, el.Props.Type())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, fmt.Sprintf("could not encode props: %v", err))
		return
	}
	h.writeJSON(w, http.StatusOK, elementResponse{ID: id, Type: el.Type, Props: props})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write inspection response", "error", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
