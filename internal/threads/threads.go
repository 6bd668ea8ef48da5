// Package threads derives conversation threads from the flat inbox log.
//
// The log is the only stored structure. Threads are recomputed from it on
// demand and never written back.
package threads

import (
	"sort"

	"github.com/lalith-99/skillswap/internal/models"
)

// Separator joins the two participant names in a thread key.
const Separator = " ⇄ "

// Key returns the thread key for a pair of participants. The names are
// sorted first, so Key(a, b) == Key(b, a).
func Key(me, other string) string {
	if other < me {
		me, other = other, me
	}
	return me + Separator + other
}

// Thread is every message between one pair of participants, oldest first.
type Thread struct {
	Key      string           `json:"key"`
	Messages []models.Message `json:"messages"`
}

// Last returns the most recent message. Threads built by Build are never
// empty.
func (t Thread) Last() models.Message {
	return t.Messages[len(t.Messages)-1]
}

// Build groups messages by their stored Summary, orders each thread by
// CreatedAt ascending, then orders threads so the most recently active
// comes first. Both sorts are stable, so equal timestamps keep log order.
func Build(messages []models.Message) []Thread {
	index := make(map[string]int)
	out := make([]Thread, 0)

	for _, m := range messages {
		i, ok := index[m.Summary]
		if !ok {
			i = len(out)
			index[m.Summary] = i
			out = append(out, Thread{Key: m.Summary})
		}
		out[i].Messages = append(out[i].Messages, m)
	}

	for i := range out {
		msgs := out[i].Messages
		sort.SliceStable(msgs, func(a, b int) bool {
			return msgs[a].CreatedAt.Before(msgs[b].CreatedAt)
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Last().CreatedAt.After(out[b].Last().CreatedAt)
	})
	return out
}
