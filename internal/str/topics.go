//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import (
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/vv"
)

var ErrParamRange = errors.New("parameter out of range")

// Category - the keyword label attached to every document
type Category string

const (
	NoCategory           Category = "" // missing/unset
	CatFamily            Category = "Family"
	CatRelationship      Category = "Relationship"
	CatFriendConflict    Category = "Friendship (Conflict)"
	CatFriendFight       Category = "Friendship (Fight)"
	CatFriendBetrayal    Category = "Friendship (Betrayal)"
	CatWork              Category = "Work"
	CatOther             Category = "Other"
	UnsetCategoryDisplay          = "n/a"
)

const OutlierTopic = vv.OUTLIERTOPIC

// AllCategories - the closed set in presentation order
func AllCategories() []Category {
	return []Category{CatFamily, CatRelationship, CatFriendConflict, CatFriendFight, CatFriendBetrayal, CatWork, CatOther}
}

// IsSet - false for NoCategory
func (c Category) IsSet() bool {
	return c != NoCategory
}

// Display - what a table cell shows
func (c Category) Display() string {
	if !c.IsSet() {
		return UnsetCategoryDisplay
	}
	return string(c)
}

// Document - one line of user input
type Document struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Topic    int      `json:"topic"`
}

// TopicSummary - one row per topic id as reported by the modeler
type TopicSummary struct {
	TopicID   int      `json:"topic_id"`
	TopicName string   `json:"topic_name"`
	Count     int      `json:"count"`
	Terms     []string `json:"terms"`
}

// EnrichedDocument - a Document left-joined with its topic's name and dominant category
type EnrichedDocument struct {
	Document
	TopicName        string   `json:"topic_name"`
	DominantCategory Category `json:"dominant_category"`
	Matched          bool     `json:"matched"`
}

// EnrichedTopicSummary - a TopicSummary plus the mode of its documents' categories
type EnrichedTopicSummary struct {
	TopicSummary
	DominantCategory Category `json:"dominant_category"`
}

// ModelParams - the three knobs
type ModelParams struct {
	NumTopics    int `json:"num_topics" koanf:"numtopics" yaml:"numtopics"`
	MinTopicSize int `json:"min_topic_size" koanf:"mintopicsize" yaml:"mintopicsize"`
	TopWords     int `json:"top_words" koanf:"topwords" yaml:"topwords"`
}

// DefaultParams - 9, 5, 12
func DefaultParams() ModelParams {
	return ModelParams{
		NumTopics:    vv.DEFAULTTOPICS,
		MinTopicSize: vv.DEFAULTMINTOPICSZ,
		TopWords:     vv.DEFAULTTOPWORDS,
	}
}

// Validate - every knob inside its bounds or ErrParamRange
func (mp ModelParams) Validate() error {
	const (
		FAIL = "%w: %s must be in [%d, %d]; got %d"
	)
	chk := []struct {
		name   string
		v      int
		lo, hi int
	}{
		{"number of topics", mp.NumTopics, vv.MINTOPICS, vv.MAXTOPICS},
		{"minimum topic size", mp.MinTopicSize, vv.MINMINTOPICSZ, vv.MAXMINTOPICSZ},
		{"number of top words", mp.TopWords, vv.MINTOPWORDS, vv.MAXTOPWORDS},
	}
	for _, c := range chk {
		if c.v < c.lo || c.v > c.hi {
			return fmt.Errorf(FAIL, ErrParamRange, c.name, c.lo, c.hi, c.v)
		}
	}
	return nil
}
