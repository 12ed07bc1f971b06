// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package hungarian detects logical ids that repeat their resource type, like
// WorkstationImageRecipe for an AWS::ImageBuilder::ImageRecipe.
package hungarian

import (
	"strings"
	"unicode"
)

// IsHungarian reports whether any word of the CloudFormation type (vendor
// prefix excluded) appears in the logical id. Matching is case-insensitive
// and accepts whole words as well as substrings, so ids without word
// boundaries still match.
func IsHungarian(typ string, logicalID string) bool {
	if typ == "" || logicalID == "" {
		return false
	}

	idLower := strings.ToLower(logicalID)
	idWords := map[string]bool{}
	for _, w := range Words(logicalID) {
		idWords[strings.ToLower(w)] = true
	}

	for _, tok := range TypeTokens(typ) {
		if idWords[tok] || strings.Contains(idLower, tok) {
			return true
		}
	}
	return false
}

// TypeTokens returns the distinct lower-case words of a CloudFormation type,
// skipping the vendor segment: AWS::EC2::SecurityGroup gives ec2, security,
// group.
func TypeTokens(typ string) []string {
	segments := strings.Split(typ, "::")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	seen := map[string]bool{}
	var tokens []string
	for _, seg := range segments {
		for _, w := range Words(seg) {
			w = strings.ToLower(w)
			if len(w) < 2 || seen[w] {
				continue
			}
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Words splits s at separators and camel case boundaries. Runs of capitals
// stay together, so VPCEndpoint gives VPC, Endpoint.
func Words(s string) []string {
	runes := []rune(s)
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}
