package mutationboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultCropVocabulary is the closed set of crop names the parser
// recognizes in a mutation's Conditions map; any other non-"special",
// non-"adjacent_crops" key is treated as a mutation-dependency id
// (spec.md §3, "Mutation catalog entry"). A host with a larger crop
// catalog can supply its own vocabulary via Parser.CropVocabulary.
var DefaultCropVocabulary = []string{
	"wheat", "potato", "carrot", "tomato", "corn", "pumpkin",
	"sugarcane", "melon", "cocoa", "beetroot", "onion", "cabbage",
	"pepper", "rice", "cotton",
}

// Parser normalizes RawMutation catalog records into ParsedMutation, caching
// by id (spec.md §4.1). The safe contract is that Parse never mutates its
// input map — a prior implementation leaked a godseed override back into
// the shared catalog; see DESIGN.md Open Question.
type Parser struct {
	CropVocabulary []string
	cache          map[MutationID]*ParsedMutation
	vocab          map[string]bool
}

// NewParser returns a Parser using DefaultCropVocabulary.
func NewParser() *Parser {
	return &Parser{CropVocabulary: DefaultCropVocabulary}
}

func (p *Parser) vocabSet() map[string]bool {
	if p.vocab == nil {
		p.vocab = make(map[string]bool, len(p.CropVocabulary))
		for _, c := range p.CropVocabulary {
			p.vocab[c] = true
		}
	}
	return p.vocab
}

// ParseSize parses a "WxH" string into a Footprint with W,H in {1,2,3}.
func ParseSize(size string) (Footprint, error) {
	parts := strings.SplitN(size, "x", 2)
	if len(parts) != 2 {
		return Footprint{}, fmt.Errorf("size %q: %w", size, ErrMalformedSize)
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || w < 1 || w > 3 || h < 1 || h > 3 {
		return Footprint{}, fmt.Errorf("size %q: %w", size, ErrMalformedSize)
	}
	return Footprint{W: w, H: h}, nil
}

// Parse normalizes a single raw catalog entry, consulting and populating
// the per-Parser cache. raw is read-only; Parse never mutates it.
func (p *Parser) Parse(raw *RawMutation) (*ParsedMutation, error) {
	if p.cache == nil {
		p.cache = make(map[MutationID]*ParsedMutation)
	}
	if cached, ok := p.cache[raw.ID]; ok {
		return cached, nil
	}

	fp, err := ParseSize(raw.Size)
	if err != nil {
		return nil, err
	}

	m := &ParsedMutation{
		ID:        raw.ID,
		Name:      raw.Name,
		Footprint: fp,
		Crops:     make(map[CropName]int),
		Deps:      make(map[MutationID]int),
		Effects:   make(map[EffectTag]bool, len(raw.Effects)),
		Drops:     make(map[string]float64, len(raw.Drops)),
	}
	for _, e := range raw.Effects {
		m.Effects[e] = true
	}
	for drop, amount := range raw.Drops {
		m.Drops[drop] = amount
	}

	vocab := p.vocabSet()
	for key, cond := range raw.Conditions {
		switch {
		case key == "special":
			m.Special = true
		case key == "adjacent_crops":
			if cond.Numeric == 0 {
				m.Isolated = true
			}
		case vocab[key]:
			m.Crops[CropName(key)] = cond.Numeric
		default:
			m.Deps[MutationID(key)] = cond.Numeric
		}
	}

	if m.Isolated {
		m.Crops = make(map[CropName]int)
	}

	m.Tier = tierOf(m)
	p.cache[raw.ID] = m
	return m, nil
}

// ParseAll normalizes every entry of catalog, returning a map keyed by id.
// The input map is never mutated.
func (p *Parser) ParseAll(catalog map[MutationID]*RawMutation) (map[MutationID]*ParsedMutation, error) {
	out := make(map[MutationID]*ParsedMutation, len(catalog))
	for id, raw := range catalog {
		m, err := p.Parse(raw)
		if err != nil {
			return nil, err
		}
		out[id] = m
	}
	return out, nil
}

// tierOf derives a coarse ranking signal from footprint area and effect
// count, consumed by PlacementScorer's "+3*tier" term and GreedySolver's
// priority ordering.
func tierOf(m *ParsedMutation) int {
	tier := m.Footprint.Area()
	tier += len(m.Effects)
	return tier
}

// GodseedConditions computes the minimum-cardinality set of additional
// mutation ids that, together with available, collectively cover all six
// positive effect types, via a greedy set-cover (spec.md §4.1). The
// returned record is a fresh ParsedMutation for GodseedID; it is never
// written back into any shared catalog map.
func GodseedConditions(pool map[MutationID]*ParsedMutation, available map[MutationID]bool) *ParsedMutation {
	covered := make(map[EffectTag]bool, len(positiveEffectTypes))
	for id := range available {
		m := pool[id]
		if m == nil {
			continue
		}
		markCovered(covered, m)
	}

	type candidate struct {
		id   MutationID
		m    *ParsedMutation
	}
	var candidates []candidate
	for id, m := range pool {
		if m.Special || m.Isolated || !m.hasOnlyPositiveEffect() {
			continue
		}
		candidates = append(candidates, candidate{id, m})
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].m, candidates[j].m
		if ai.Footprint.Area() != aj.Footprint.Area() {
			return ai.Footprint.Area() < aj.Footprint.Area()
		}
		if len(ai.Effects) != len(aj.Effects) {
			return len(ai.Effects) > len(aj.Effects)
		}
		return candidates[i].id < candidates[j].id
	})

	chosen := make(map[MutationID]int)
	for {
		if allPositiveCovered(covered) {
			break
		}
		bestIdx := -1
		bestGain := 0
		for i, c := range candidates {
			gain := newlyCovered(covered, c.m)
			if gain > bestGain {
				bestGain = gain
				bestIdx = i
			}
		}
		if bestIdx < 0 || bestGain == 0 {
			break
		}
		chosen[candidates[bestIdx].id]++
		markCovered(covered, candidates[bestIdx].m)
		candidates = append(candidates[:bestIdx], candidates[bestIdx+1:]...)
	}

	deps := make(map[MutationID]int, len(chosen))
	for id, n := range chosen {
		deps[id] = n
	}
	return &ParsedMutation{
		ID:        GodseedID,
		Name:      "Godseed",
		Footprint: Footprint{W: 3, H: 3},
		Crops:     map[CropName]int{},
		Deps:      deps,
		Effects:   map[EffectTag]bool{},
	}
}

func markCovered(covered map[EffectTag]bool, m *ParsedMutation) {
	for _, t := range positiveEffectTypes {
		if m.Effects[t] {
			covered[t] = true
		}
	}
	for improved, base := range improvedOf {
		if m.Effects[improved] {
			covered[base] = true
		}
	}
}

func newlyCovered(covered map[EffectTag]bool, m *ParsedMutation) int {
	gain := 0
	seen := make(map[EffectTag]bool)
	add := func(t EffectTag) {
		if !covered[t] && !seen[t] {
			seen[t] = true
			gain++
		}
	}
	for _, t := range positiveEffectTypes {
		if m.Effects[t] {
			add(t)
		}
	}
	for improved, base := range improvedOf {
		if m.Effects[improved] {
			add(base)
		}
	}
	return gain
}

func allPositiveCovered(covered map[EffectTag]bool) bool {
	for _, t := range positiveEffectTypes {
		if !covered[t] {
			return false
		}
	}
	return true
}

// ParseCatalogJSON walks a raw catalog JSON document the way the teacher's
// buildGameCache walks its raw game-data export (gjson.Get(...).ForEach,
// no full unmarshal): {"id": {"name","size","groundAffinity","drops",
// "effects","conditions"}, ...}. A "conditions" value that is a JSON string
// (such as "special": "storm_event") becomes RawCondition{IsSpecial:true}
// with Special set to that string; any other value is read as a number.
func ParseCatalogJSON(doc string) (map[MutationID]*RawMutation, error) {
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return nil, fmt.Errorf("mutationboard: catalog document is not a JSON object")
	}
	out := make(map[MutationID]*RawMutation)
	var parseErr error
	root.ForEach(func(key, v gjson.Result) bool {
		id := MutationID(key.String())
		rec := &RawMutation{
			ID:             id,
			Name:           v.Get("name").String(),
			Size:           v.Get("size").String(),
			GroundAffinity: v.Get("groundAffinity").String(),
			Drops:          make(map[string]float64),
			Conditions:     make(map[string]RawCondition),
		}
		v.Get("drops").ForEach(func(dk, dv gjson.Result) bool {
			rec.Drops[dk.String()] = dv.Float()
			return true
		})
		v.Get("effects").ForEach(func(_, ev gjson.Result) bool {
			rec.Effects = append(rec.Effects, EffectTag(ev.String()))
			return true
		})
		v.Get("conditions").ForEach(func(ck, cv gjson.Result) bool {
			if cv.Type == gjson.String {
				rec.Conditions[ck.String()] = RawCondition{Special: cv.String(), IsSpecial: true}
			} else {
				rec.Conditions[ck.String()] = RawCondition{Numeric: int(cv.Int())}
			}
			return true
		})
		out[id] = rec
		return true
	})
	return out, parseErr
}
