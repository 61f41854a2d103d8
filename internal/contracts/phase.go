package contracts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product Phase 정의 (SSOT)
// 모든 로그, 스냅샷, DB row에서 이 상수를 사용해야 함
//
// 라이프사이클:
//   Idea → EarlyLive → MatureLive
//   (판매 전)  (판매 초기)   (판매 안정)

// Phase represents a product lifecycle phase
type Phase int

const (
	// PhaseIdea 판매 데이터 없음, Live Performance pillar 미산출
	PhaseIdea Phase = iota

	// PhaseEarlyLive 판매 시작, 표본이 작아 신뢰도 할인
	PhaseEarlyLive

	// PhaseMatureLive 판매 안정
	PhaseMatureLive
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdea:
		return "idea"
	case PhaseEarlyLive:
		return "early_live"
	case PhaseMatureLive:
		return "mature_live"
	default:
		return "unknown"
	}
}

// Description returns a human readable label
func (p Phase) Description() string {
	switch p {
	case PhaseIdea:
		return "Idea"
	case PhaseEarlyLive:
		return "Early Live"
	case PhaseMatureLive:
		return "Mature Live"
	default:
		return "Unknown"
	}
}

// IsLive reports whether sales data is in scope for the phase
func (p Phase) IsLive() bool {
	return p == PhaseEarlyLive || p == PhaseMatureLive
}

// Valid reports whether p is one of the defined phases
func (p Phase) Valid() bool {
	return p >= PhaseIdea && p <= PhaseMatureLive
}

// AllPhases returns all phases in lifecycle order
func AllPhases() []Phase {
	return []Phase{PhaseIdea, PhaseEarlyLive, PhaseMatureLive}
}

// ParsePhase accepts the numeric wire form ("0".."2") or a phase name
func ParsePhase(s string) (Phase, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	if n, err := strconv.Atoi(s); err == nil {
		p := Phase(n)
		if !p.Valid() {
			return 0, fmt.Errorf("invalid phase %d", n)
		}
		return p, nil
	}

	switch strings.ReplaceAll(strings.ReplaceAll(s, "-", "_"), " ", "_") {
	case "idea":
		return PhaseIdea, nil
	case "early_live", "earlylive":
		return PhaseEarlyLive, nil
	case "mature_live", "maturelive":
		return PhaseMatureLive, nil
	}
	return 0, fmt.Errorf("invalid phase %q", s)
}

// UnmarshalJSON accepts both 0/1/2 and "idea"/"early_live"/"mature_live"
func (p *Phase) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !Phase(n).Valid() {
			return fmt.Errorf("invalid phase %d", n)
		}
		*p = Phase(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("phase must be a number or string: %w", err)
	}
	parsed, err := ParsePhase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
