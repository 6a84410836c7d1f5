// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"allocpoll/middleware"
	"allocpoll/pairgen"
)

// StrategyHandler serves the strategy catalog. It has no dependencies; the
// registry is compiled in.
type StrategyHandler struct{}

func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// StrategyInfo describes one registered strategy for survey-creation UIs.
type StrategyInfo struct {
	Name         string           `json:"name"`
	OptionLabels [2]string        `json:"option_labels"`
	Columns      []pairgen.Column `json:"columns"`
	RankingBased bool             `json:"ranking_based"`
}

// ListStrategies handles GET /strategies
func (h *StrategyHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	names := pairgen.Names()
	infos := make([]StrategyInfo, 0, len(names))
	for _, name := range names {
		s, err := pairgen.Lookup(name)
		if err != nil {
			slog.Error("registry returned unknown name", "strategy", name, "error", err)
			continue
		}
		infos = append(infos, StrategyInfo{
			Name:         s.Name(),
			OptionLabels: s.OptionLabels(),
			Columns:      s.TableColumns(),
			RankingBased: s.RankingBased(),
		})
	}
	middleware.JSONResponse(w, http.StatusOK, infos)
}
