//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"context"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/mat"
	"runtime"
	"sort"
	"strings"
	"time"
)

// bowman's LDA returns topics as rows and documents as columns: docsOverTopics.At(topic, doc)
// the count vectoriser does the same with words: termsOverDocs.At(word, doc)
// lda.Components() is topicsOverWords.At(topic, word)

// Fitted - what the modeler hands back to the pipeline
type Fitted struct {
	Topics      []int              // one per input text; -1 is an outlier
	Probability []float64          // weight of the assigned topic; 0 for outliers
	Summaries   []str.TopicSummary // outliers first (if any), then 0..m-1
	Vocabulary  []string
	TopicWords  *mat.Dense // m x len(Vocabulary); nil if no topic survived
	Embeddings  *mat.Dense // same as TopicWords when m >= 2; nil means "nothing to draw"
}

// LDAModeler - Latent Dirichlet Allocation via github.com/e-gun/nlp
type LDAModeler struct {
	Iterations  int
	XformPasses int
	Workers     int
	Msg         *mm.MessageMaker
}

// NewLDAModeler - a modeler with the built-in defaults
func NewLDAModeler(msg *mm.MessageMaker) *LDAModeler {
	return &LDAModeler{
		Iterations:  vv.LDAITER,
		XformPasses: vv.LDAXFORMPASSES,
		Workers:     runtime.NumCPU(),
		Msg:         msg,
	}
}

type topicsorter struct {
	W string
	V float64
}

// Model - assign every text to a topic and summarize the topics
func (lm *LDAModeler) Model(ctx context.Context, texts []string, p str.ModelParams) (*Fitted, error) {
	const (
		MSG1 = "Model(): %d of %d texts have usable words"
		MSG2 = "Model(): %d raw topics; %d survive a minimum size of %d; %d outliers"
		FAIL = "lda failed to model topics for documents: %w"
	)

	if err := p.Validate(); err != nil {
		return nil, err
	}

	msg := lm.Msg
	if msg == nil {
		msg = mm.NewMessageMaker()
	}

	start := time.Now()
	previous := time.Now()

	corpus, nonempty := PrepAll(texts)
	msg.PEEK(fmt.Sprintf(MSG1, nonempty, len(texts)))

	ft := &Fitted{
		Topics:      make([]int, len(texts)),
		Probability: make([]float64, len(texts)),
	}

	if nonempty == 0 {
		// nothing to model: everyone is an outlier
		for i := range ft.Topics {
			ft.Topics[i] = vv.OUTLIERTOPIC
		}
		ft.Summaries = lm.summaries(ft, nil, nil, nil, p.TopWords)
		return ft, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// [a] vectorise

	vectoriser := nlp.NewCountVectoriser(EnglishStops()...)
	termsOverDocs, err := vectoriser.FitTransform(corpus...)
	if err != nil {
		return nil, fmt.Errorf(FAIL, err)
	}

	ft.Vocabulary = make([]string, len(vectoriser.Vocabulary))
	for k, v := range vectoriser.Vocabulary {
		ft.Vocabulary[v] = k
	}
	msg.Timer("B1", fmt.Sprintf("vectorised %d texts; vocabulary of %d", len(corpus), len(ft.Vocabulary)), start, previous)
	previous = time.Now()

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// [b] fit

	lda := nlp.NewLatentDirichletAllocation(p.NumTopics)
	lda.Processes = lm.Workers
	lda.Iterations = lm.Iterations
	lda.TransformationPasses = lm.XformPasses

	docsOverTopics, err := lda.FitTransform(termsOverDocs)
	if err != nil {
		return nil, fmt.Errorf(FAIL, err)
	}
	topicsOverWords := lda.Components()
	msg.Timer("B2", "lda fitted", start, previous)

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// [c] dominant topic per document, then dissolve the small topics

	raw, weight := ldadominanttopic(docsOverTopics)
	for i := range raw {
		if corpus[i] == "" {
			raw[i] = vv.OUTLIERTOPIC
			weight[i] = 0
		}
	}

	renumber := ldarenumber(raw, p.NumTopics, p.MinTopicSize)
	outliers := 0
	for i, r := range raw {
		if r == vv.OUTLIERTOPIC {
			ft.Topics[i] = vv.OUTLIERTOPIC
			outliers++
			continue
		}
		nt, ok := renumber[r]
		if !ok {
			ft.Topics[i] = vv.OUTLIERTOPIC
			outliers++
			continue
		}
		ft.Topics[i] = nt
		ft.Probability[i] = weight[i]
	}
	msg.PEEK(fmt.Sprintf(MSG2, p.NumTopics, len(renumber), p.MinTopicSize, outliers))

	// [d] the surviving topics' word distributions, in new id order

	ordered := make([]int, len(renumber))
	for old, nw := range renumber {
		ordered[nw] = old
	}

	if len(ordered) > 0 {
		ft.TopicWords = ldatopicwords(ordered, topicsOverWords)
		if len(ordered) >= 2 {
			ft.Embeddings = ft.TopicWords
		}
	}

	ft.Summaries = lm.summaries(ft, ordered, topicsOverWords, termsOverDocs, p.TopWords)
	return ft, nil
}

// ldadominanttopic - the winning topic for each document and its weight
func ldadominanttopic(docsOverTopics mat.Matrix) ([]int, []float64) {
	dr, dc := docsOverTopics.Dims()
	winners := make([]int, dc)
	weights := make([]float64, dc)
	for doc := 0; doc < dc; doc++ {
		max := float64(-1)
		winner := 0
		for topic := 0; topic < dr; topic++ {
			// any given corpus[doc] will look like
			// Topic #0=0.006009, Topic #1=0.006915, Topic #2=0.000688, Topic #3=0.449514, Topic #4=0.536875
			if docsOverTopics.At(topic, doc) > max {
				winner = topic
				max = docsOverTopics.At(topic, doc)
			}
		}
		winners[doc] = winner
		weights[doc] = max
	}
	return winners, weights
}

// ldarenumber - old id ==> new id for topics with at least minsize documents; biggest topic becomes 0
func ldarenumber(raw []int, ntopics int, minsize int) map[int]int {
	counter := make([]int, ntopics)
	for _, r := range raw {
		if r >= 0 && r < ntopics {
			counter[r]++
		}
	}

	var keep []int
	for t, c := range counter {
		if c >= minsize {
			keep = append(keep, t)
		}
	}

	sort.SliceStable(keep, func(i, j int) bool {
		return counter[keep[i]] > counter[keep[j]]
	})

	renumber := make(map[int]int, len(keep))
	for nw, old := range keep {
		renumber[old] = nw
	}
	return renumber
}

// ldatopicwords - copy the chosen rows of topicsOverWords, each scaled to sum to 1
func ldatopicwords(ordered []int, topicsOverWords mat.Matrix) *mat.Dense {
	_, tc := topicsOverWords.Dims()
	tw := mat.NewDense(len(ordered), tc, nil)
	for i, old := range ordered {
		sum := 0.0
		for w := 0; w < tc; w++ {
			sum += topicsOverWords.At(old, w)
		}
		for w := 0; w < tc; w++ {
			v := topicsOverWords.At(old, w)
			if sum > 0 {
				v = v / sum
			}
			tw.Set(i, w, v)
		}
	}
	return tw
}

// ldasortedwords - the top n words of one weight vector
func ldasortedwords(vocab []string, weights func(w int) float64, n int, dropzero bool) []string {
	tss := make([]topicsorter, 0, len(vocab))
	for w := range vocab {
		v := weights(w)
		if dropzero && v <= 0 {
			continue
		}
		tss = append(tss, topicsorter{W: vocab[w], V: v})
	}
	sort.SliceStable(tss, func(i, j int) bool {
		if tss[i].V == tss[j].V {
			return tss[i].W < tss[j].W
		}
		return tss[i].V > tss[j].V
	})
	if n > len(tss) {
		n = len(tss)
	}
	top := make([]string, n)
	for i := 0; i < n; i++ {
		top[i] = tss[i].W
	}
	return top
}

// summaries - build the topic table: outliers first, then 0..m-1
func (lm *LDAModeler) summaries(ft *Fitted, ordered []int, topicsOverWords mat.Matrix, termsOverDocs mat.Matrix, topn int) []str.TopicSummary {
	counts := make(map[int]int)
	for _, t := range ft.Topics {
		counts[t]++
	}

	var ss []str.TopicSummary

	if counts[vv.OUTLIERTOPIC] > 0 {
		var terms []string
		if termsOverDocs != nil {
			// outliers have no topic vector: rank their words by raw counts
			var members []int
			for i, t := range ft.Topics {
				if t == vv.OUTLIERTOPIC {
					members = append(members, i)
				}
			}
			wc := func(w int) float64 {
				s := 0.0
				for _, d := range members {
					s += termsOverDocs.At(w, d)
				}
				return s
			}
			terms = ldasortedwords(ft.Vocabulary, wc, topn, true)
		}
		ss = append(ss, str.TopicSummary{
			TopicID:   vv.OUTLIERTOPIC,
			TopicName: TopicName(vv.OUTLIERTOPIC, terms),
			Count:     counts[vv.OUTLIERTOPIC],
			Terms:     terms,
		})
	}

	for nw, old := range ordered {
		row := func(w int) float64 { return topicsOverWords.At(old, w) }
		terms := ldasortedwords(ft.Vocabulary, row, topn, false)
		ss = append(ss, str.TopicSummary{
			TopicID:   nw,
			TopicName: TopicName(nw, terms),
			Count:     counts[nw],
			Terms:     terms,
		})
	}
	return ss
}

// TopicName - "3_exam_work_stress_boss"
func TopicName(id int, terms []string) string {
	n := vv.NAMEDTERMS
	if n > len(terms) {
		n = len(terms)
	}
	parts := append([]string{fmt.Sprintf("%d", id)}, terms[:n]...)
	return strings.Join(parts, "_")
}
