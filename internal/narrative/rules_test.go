package narrative

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ternarybob/nephra/internal/ksls"
)

// firedRules returns the names of the context rules that apply, in render
// order.
func firedRules(result ksls.Result, demo Demographics) []string {
	names := []string{}
	for _, rule := range contextRules {
		if rule.applies(result, demo) {
			names = append(names, rule.name)
		}
	}
	return names
}

func TestContextRules_AgeBrackets(t *testing.T) {
	tests := []struct {
		name string
		age  *int
		want []string
	}{
		{"no age", nil, []string{}},
		{"29 is under 30", ip(29), []string{"age_under_30"}},
		{"30 starts midlife", ip(30), []string{"age_30_to_59"}},
		{"59 is still midlife", ip(59), []string{"age_30_to_59"}},
		{"60 starts senior", ip(60), []string{"age_60_plus"}},
		{"75 is senior", ip(75), []string{"age_60_plus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firedRules(quietResult(), Demographics{Age: tt.age})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("firedRules() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextRules_SexTokens(t *testing.T) {
	tests := []struct {
		token string
		want  []string
	}{
		{"female", []string{"sex_female"}},
		{"F", []string{"sex_female"}},
		{" Woman ", []string{"sex_female"}},
		{"mujer", []string{"sex_female"}},
		{"male", []string{"sex_male"}},
		{"M", []string{"sex_male"}},
		{"hombre", []string{"sex_male"}},
		{"", []string{}},
		{"nonbinary", []string{}},
		{"fem", []string{}},
	}

	for _, tt := range tests {
		t.Run("token "+tt.token, func(t *testing.T) {
			got := firedRules(quietResult(), Demographics{SexAtBirth: tt.token})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("firedRules(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestContextRules_CommunityMarkers(t *testing.T) {
	tests := []struct {
		raceEthnicity string
		want          bool
	}{
		{"Black or African American", true},
		{"hispanic/latino", true},
		{"Torres Strait Islander", true},
		{"Native Hawaiian or Pacific Islander", true},
		{"white", false},
		{"Asian", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.raceEthnicity, func(t *testing.T) {
			if got := matchesCommunity(tt.raceEthnicity); got != tt.want {
				t.Errorf("matchesCommunity(%q) = %v, want %v", tt.raceEthnicity, got, tt.want)
			}
		})
	}
}

func TestContextRules_BMIBrackets(t *testing.T) {
	tests := []struct {
		name string
		bmi  float64
		want []string
	}{
		{"obese range", 32.0, []string{"bmi_high"}},
		{"exactly 30", 30.0, []string{"bmi_high"}},
		{"underweight", 17.0, []string{"bmi_low"}},
		{"healthy range", 24.0, []string{}},
		{"unknown bmi", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := quietResult()
			result.BMI = tt.bmi
			// BMI rules read the result; an empty Demographics keeps the
			// other rules quiet.
			got := firedRules(result, Demographics{})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("firedRules() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContextRules_CKDStages(t *testing.T) {
	tests := []struct {
		name  string
		stage *int
		want  []string
	}{
		{"no stage", nil, []string{}},
		{"stage 2", ip(2), []string{}},
		{"stage 3", ip(3), []string{"ckd_stage_3_plus"}},
		{"stage 4 fires both", ip(4), []string{"ckd_stage_3_plus", "ckd_stage_4_plus"}},
		{"stage 5 fires both", ip(5), []string{"ckd_stage_3_plus", "ckd_stage_4_plus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := firedRules(quietResult(), Demographics{CKDStage: tt.stage})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("firedRules() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildContext_RulesFireIndependently(t *testing.T) {
	result := quietResult()
	result.BMI = 31.0
	demo := Demographics{
		Age:           ip(67),
		SexAtBirth:    "female",
		RaceEthnicity: "Black",
		CKDStage:      ip(4),
	}

	want := []string{
		"age_60_plus",
		"sex_female",
		"community_screening",
		"bmi_high",
		"ckd_stage_3_plus",
		"ckd_stage_4_plus",
	}
	if got := firedRules(result, demo); !reflect.DeepEqual(got, want) {
		t.Fatalf("firedRules() = %v, want %v", got, want)
	}

	context := buildContext(result, demo)
	for _, rule := range contextRules {
		if !rule.applies(result, demo) {
			continue
		}
		if !strings.Contains(context, rule.paragraph(result, demo)) {
			t.Errorf("context missing paragraph for rule %s", rule.name)
		}
	}
}

func TestBuildContext_EmptyWithoutApplicableRules(t *testing.T) {
	if got := buildContext(quietResult(), Demographics{}); got != "" {
		t.Errorf("buildContext() = %q, want empty", got)
	}
}
