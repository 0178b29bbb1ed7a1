// Package lipsum produces lorem-ipsum placeholder text.
package lipsum

import (
	"math/rand"
	"strings"
)

var vocabulary = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do
eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam quis
nostrud exercitation ullamco laboris nisi aliquip ex ea commodo consequat duis aute irure
in reprehenderit voluptate velit esse cillum fugiat nulla pariatur excepteur sint occaecat
cupidatat non proident sunt culpa qui officia deserunt mollit anim id est laborum
curabitur pretium tincidunt lacus gravida orci a odio nullam varius turpis et commodo
pharetra eros bibendum elit nec luctus magna felis sollicitudin mauris integer semper
ultrices tortor donec vitae mi vel nibh viverra aliquet`)

const (
	minWords     = 4
	maxWords     = 14
	minSentences = 3
	maxSentences = 7
)

// Words returns n space-separated lower-case words.
func Words(r *rand.Rand, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = vocabulary[r.Intn(len(vocabulary))]
	}
	return strings.Join(words, " ")
}

// Sentence returns one capitalised sentence ending in a full stop.
func Sentence(r *rand.Rand) string {
	s := Words(r, between(r, minWords, maxWords))
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// Paragraph returns a run of sentences.
func Paragraph(r *rand.Rand) string {
	n := between(r, minSentences, maxSentences)
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = Sentence(r)
	}
	return strings.Join(sentences, " ")
}

// Paragraphs returns between lo and hi paragraphs separated by a blank line.
func Paragraphs(r *rand.Rand, lo, hi int) string {
	lo = max(lo, 1)
	hi = max(hi, lo)
	n := between(r, lo, hi)
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = Paragraph(r)
	}
	return strings.Join(paragraphs, "\n\n")
}

// Title returns a short capitalised phrase without punctuation.
func Title(r *rand.Rand) string {
	s := Words(r, between(r, 2, 6))
	return strings.ToUpper(s[:1]) + s[1:]
}

// between returns a uniform int in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}
