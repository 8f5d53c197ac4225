package narrative

import (
	"fmt"
	"strings"

	"github.com/ternarybob/nephra/internal/ksls"
)

// Interpret renders guidance for a computed result. It is a pure function
// of its arguments and never fails: a nil demographics pointer simply
// skips the personalized context block.
//
// The cascade runs in fixed order: band summary, contributor detail,
// demographic context, disclaimer.
func Interpret(result ksls.Result, demo *Demographics) Interpretation {
	ranked := ksls.RankFactors(result.Factors)

	topFactors := make([]string, 0, len(ranked))
	for _, rf := range ranked {
		topFactors = append(topFactors, FactorName(rf.Key))
	}

	interpretation := Interpretation{
		Summary:    bandSummaries[result.Band],
		Detail:     buildDetail(ranked),
		Disclaimer: Disclaimer,
		TopFactors: topFactors,
	}

	if demo != nil {
		interpretation.Context = buildContext(result, *demo)
	}

	return interpretation
}

// buildDetail names the significant contributors and appends guidance for
// the top one.
func buildDetail(ranked []ksls.RankedFactor) string {
	significant := make([]ksls.RankedFactor, 0, len(ranked))
	for _, rf := range ranked {
		if rf.Value > SignificantThreshold {
			significant = append(significant, rf)
		}
	}

	if len(significant) == 0 {
		return reassuringDetail
	}

	var lead string
	if len(significant) == 1 {
		lead = fmt.Sprintf("Your main contributor today is %s.", FactorName(significant[0].Key))
	} else {
		lead = fmt.Sprintf("Your main contributors today are %s and %s.",
			FactorName(significant[0].Key), FactorName(significant[1].Key))
	}

	top := significant[0]
	guidance, ok := guidanceByFactor[top.Key]
	if !ok {
		return lead
	}

	advice := guidance.moderate
	if top.Value >= guidance.escalateAt {
		advice = guidance.strong
	}

	return lead + " " + advice
}

// buildContext evaluates every demographic rule and concatenates the
// paragraphs of those that apply.
func buildContext(result ksls.Result, demo Demographics) string {
	paragraphs := make([]string, 0, len(contextRules))
	for _, rule := range contextRules {
		if rule.applies(result, demo) {
			paragraphs = append(paragraphs, rule.paragraph(result, demo))
		}
	}
	return strings.Join(paragraphs, " ")
}
