package consensus

import (
	"errors"

	"quizsolver/internal/provider"
)

// ErrNoConsensus is returned when no successful response exists to vote on.
var ErrNoConsensus = errors.New("no consensus: no successful responses")

// DefaultThreshold is the pairwise similarity above which two answers are
// treated as agreeing.
const DefaultThreshold = 0.7

// Result is the voter's verdict for one question.
type Result struct {
	// Answer is the winning answer in normalized form.
	Answer string `json:"answer"`
	// Text is the winning answer as a model actually phrased it (cleaned,
	// original casing), suitable for typing into a free-text field.
	Text string `json:"text"`
	// Confidence is winning cluster size over successful respondents.
	Confidence float64 `json:"confidence"`
	// Cluster lists the responses that backed the winning answer.
	Cluster []provider.Response `json:"cluster"`
}

// Voter groups normalized answers into similarity clusters and picks the
// largest. It is a pure, stateless function over its inputs.
type Voter struct {
	threshold float64
}

// NewVoter creates a voter; threshold <= 0 selects DefaultThreshold.
func NewVoter(threshold float64) *Voter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Voter{threshold: threshold}
}

type vote struct {
	resp provider.Response
	core string // cleaned short answer, original casing
	norm string // normalized form used for comparison
}

type cluster struct {
	rep   string // normalized representative: first member's answer
	votes []vote
}

// Vote picks the answer backed by the largest similarity cluster among the
// successful responses. Ties go to the cluster whose answer has the shortest
// normalized form, and then to the lexicographically smaller one, so the
// outcome is deterministic. The chosen answer is always one of the
// responses' normalized texts, never an invented string.
func (v *Voter) Vote(responses []provider.Response) (Result, error) {
	votes := make([]vote, 0, len(responses))
	for _, r := range responses {
		if !r.OK() {
			continue
		}
		core := ExtractCore(r.Answer)
		norm := Normalize(core)
		if norm == "" {
			continue
		}
		votes = append(votes, vote{resp: r, core: core, norm: norm})
	}
	if len(votes) == 0 {
		return Result{}, ErrNoConsensus
	}

	clusters := v.clusterVotes(votes)
	winner := pickWinner(clusters)

	best := winner.votes[0]
	for _, member := range winner.votes[1:] {
		// Shortest phrasing is least likely to carry hallucinated extras.
		if len(member.norm) < len(best.norm) {
			best = member
		}
	}

	contributing := make([]provider.Response, 0, len(winner.votes))
	for _, member := range winner.votes {
		contributing = append(contributing, member.resp)
	}

	return Result{
		Answer:     best.norm,
		Text:       best.core,
		Confidence: float64(len(winner.votes)) / float64(len(votes)),
		Cluster:    contributing,
	}, nil
}

// clusterVotes greedily groups votes: each vote joins the first cluster
// whose representative it resembles, else starts its own.
func (v *Voter) clusterVotes(votes []vote) []cluster {
	var clusters []cluster
	for _, vt := range votes {
		joined := false
		for i := range clusters {
			if Score(clusters[i].rep, vt.norm) >= v.threshold {
				clusters[i].votes = append(clusters[i].votes, vt)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, cluster{rep: vt.norm, votes: []vote{vt}})
		}
	}
	return clusters
}

func pickWinner(clusters []cluster) cluster {
	winner := clusters[0]
	for _, c := range clusters[1:] {
		switch {
		case len(c.votes) > len(winner.votes):
			winner = c
		case len(c.votes) == len(winner.votes) && shorter(c.rep, winner.rep):
			winner = c
		}
	}
	return winner
}

func shorter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
