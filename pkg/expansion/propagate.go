package expansion

import (
	"log/slog"

	"gridgen/internal/models"
	"gridgen/pkg/grid"
)

// maxPropagationRounds caps the propagation fixed-point loop. Hitting the
// cap is non-fatal: the partial labeling is returned with a warning.
const maxPropagationRounds = 1000

// PropagateLabels grows the labels of seed into target: every target cell
// eventually receives the label of some adjacent already-labeled cell, or
// stays 0 if unreachable. Growth is round-synchronous 8-neighborhood
// maximum dilation: in each round, every still-unlabeled target cell next
// to a labeled cell takes the maximum label among its 8 neighbors as of
// the previous round. Contested cells equidistant from two seeds thus go
// to the higher label, not the nearer seed; that tie-break is part of the
// contract. Rounds run over a frontier worklist rather than full-grid
// rescans, which changes nothing observable.
func PropagateLabels(seed *models.LabeledMask, target *models.BinaryMask, logger *slog.Logger) *models.LabeledMask {
	if logger == nil {
		logger = slog.Default()
	}
	w, h := seed.Width, seed.Height
	out := models.NewLabeledMask(w, h)
	offsets := grid.Conn8.Offsets()

	frontier := make([]int, 0, w)
	for i, v := range seed.Pix {
		if v > 0 {
			out.Pix[i] = v
			frontier = append(frontier, i)
		}
	}

	queued := make([]bool, w*h)
	candidates := make([]int, 0, w)
	values := make([]int32, 0, w)

	for round := 1; len(frontier) > 0; round++ {
		if round > maxPropagationRounds {
			logger.Warn("label propagation exceeded iteration cap, returning partial result",
				"rounds", maxPropagationRounds)
			break
		}

		// Collect this round's candidates: unlabeled target cells
		// adjacent to the frontier.
		candidates = candidates[:0]
		for _, u := range frontier {
			ux, uy := u%w, u/w
			for _, d := range offsets {
				vx, vy := ux+d[0], uy+d[1]
				if vx < 0 || vx >= w || vy < 0 || vy >= h {
					continue
				}
				vi := vy*w + vx
				if queued[vi] || out.Pix[vi] != 0 || target.Pix[vi] == 0 {
					continue
				}
				queued[vi] = true
				candidates = append(candidates, vi)
			}
		}

		// Evaluate against the previous round's state, then commit all
		// assignments at once so the round stays synchronous.
		values = values[:0]
		for _, vi := range candidates {
			vx, vy := vi%w, vi/w
			var best int32
			for _, d := range offsets {
				nx, ny := vx+d[0], vy+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if v := out.Pix[ny*w+nx]; v > best {
					best = v
				}
			}
			values = append(values, best)
		}

		frontier = frontier[:0]
		for i, vi := range candidates {
			queued[vi] = false
			if values[i] > 0 {
				out.Pix[vi] = values[i]
				frontier = append(frontier, vi)
			}
		}
	}
	return out
}
