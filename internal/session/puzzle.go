package session

import (
	"math/rand"

	"github.com/Thanhvan06/japanese-quiz-service/internal/models"
)

// Token is one arrange-word of the displayed sentence-arrangement
// question. OriginalIndex is its position within the question's
// arrange-word subset, stable across shuffles, so answers can be recorded
// independently of display order.
type Token struct {
	Text          string `json:"text"`
	OriginalIndex int    `json:"original_index"`
}

// Puzzle manages the two token pools of the currently displayed
// sentence-arrangement question. Invariant: arranged and available are
// disjoint and together hold every arrange-word token exactly once.
type Puzzle struct {
	arranged  []Token
	available []Token
}

// NewPuzzle builds the pools for a freshly displayed question. With a
// prior arrangement on record, arranged is reconstructed in recorded
// order and the remaining tokens keep their original relative order in
// available. Otherwise all tokens are shuffled into available. A prior
// record referencing an unknown or duplicated token is dropped and
// treated as unanswered.
func NewPuzzle(q *models.Question, prior models.Answer, rng *rand.Rand) *Puzzle {
	words := q.ArrangeWords()
	tokens := make([]Token, len(words))
	for i, w := range words {
		tokens[i] = Token{Text: w.Text, OriginalIndex: i}
	}

	if arr, ok := prior.(models.ArrangementAnswer); ok && !arr.Empty() {
		if p := restore(tokens, arr.Sequence); p != nil {
			return p
		}
	}

	p := &Puzzle{
		arranged:  nil,
		available: tokens,
	}
	rng.Shuffle(len(p.available), func(i, j int) {
		p.available[i], p.available[j] = p.available[j], p.available[i]
	})
	return p
}

func restore(tokens []Token, sequence []int) *Puzzle {
	placed := make(map[int]bool, len(sequence))
	arranged := make([]Token, 0, len(sequence))
	for _, idx := range sequence {
		if idx < 0 || idx >= len(tokens) || placed[idx] {
			return nil
		}
		placed[idx] = true
		arranged = append(arranged, tokens[idx])
	}
	available := make([]Token, 0, len(tokens)-len(arranged))
	for _, tok := range tokens {
		if !placed[tok.OriginalIndex] {
			available = append(available, tok)
		}
	}
	return &Puzzle{arranged: arranged, available: available}
}

// MoveToArranged moves a token from the available pool to the end of the
// guess sequence. Returns false when the token is not available.
func (p *Puzzle) MoveToArranged(originalIndex int) bool {
	for i, tok := range p.available {
		if tok.OriginalIndex == originalIndex {
			p.available = append(p.available[:i], p.available[i+1:]...)
			p.arranged = append(p.arranged, tok)
			return true
		}
	}
	return false
}

// MoveToAvailable returns a token from the guess sequence to the end of
// the available pool. Returns false when the token is not arranged.
func (p *Puzzle) MoveToAvailable(originalIndex int) bool {
	for i, tok := range p.arranged {
		if tok.OriginalIndex == originalIndex {
			p.arranged = append(p.arranged[:i], p.arranged[i+1:]...)
			p.available = append(p.available, tok)
			return true
		}
	}
	return false
}

// ApplySequence replaces the arrangement wholesale (used when a client
// submits the full ordered guess in one call). The available pool keeps
// its current relative order, with tokens released from the old
// arrangement appended, so the visible pool never reshuffles on an answer
// update. Returns false and leaves the pools untouched when the sequence
// references an unknown or duplicated token.
func (p *Puzzle) ApplySequence(sequence []int) bool {
	byIndex := make(map[int]Token, len(p.arranged)+len(p.available))
	for _, tok := range p.arranged {
		byIndex[tok.OriginalIndex] = tok
	}
	for _, tok := range p.available {
		byIndex[tok.OriginalIndex] = tok
	}

	placed := make(map[int]bool, len(sequence))
	arranged := make([]Token, 0, len(sequence))
	for _, idx := range sequence {
		tok, ok := byIndex[idx]
		if !ok || placed[idx] {
			return false
		}
		placed[idx] = true
		arranged = append(arranged, tok)
	}

	available := make([]Token, 0, len(byIndex)-len(arranged))
	for _, tok := range p.available {
		if !placed[tok.OriginalIndex] {
			available = append(available, tok)
		}
	}
	for _, tok := range p.arranged {
		if !placed[tok.OriginalIndex] {
			available = append(available, tok)
		}
	}

	p.arranged = arranged
	p.available = available
	return true
}

// Arranged returns a copy of the current guess sequence.
func (p *Puzzle) Arranged() []Token {
	out := make([]Token, len(p.arranged))
	copy(out, p.arranged)
	return out
}

// Available returns a copy of the remaining pool.
func (p *Puzzle) Available() []Token {
	out := make([]Token, len(p.available))
	copy(out, p.available)
	return out
}

// Answer expresses the current arrangement as an answer-record value. An
// empty arrangement yields an empty ArrangementAnswer, which the tracker
// stores as unanswered.
func (p *Puzzle) Answer() models.ArrangementAnswer {
	seq := make([]int, len(p.arranged))
	for i, tok := range p.arranged {
		seq[i] = tok.OriginalIndex
	}
	return models.ArrangementAnswer{Sequence: seq}
}
