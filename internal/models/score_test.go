package models

import (
	"testing"
)

func fp(v float64) *float64 {
	return &v
}

func ip(v int) *int {
	return &v
}

func validScoreRequest() ScoreRequest {
	return ScoreRequest{
		Systolic:          128,
		Diastolic:         82,
		WaterIntakeLiters: 1.8,
		WaterTargetLiters: 2.5,
		HeightCm:          170,
		WeightKg:          70,
		Fatigue:           fp(4),
	}
}

func TestScoreRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScoreRequest)
		wantErr bool
	}{
		{"valid request", func(r *ScoreRequest) {}, false},
		{"symptoms all omitted", func(r *ScoreRequest) { r.Fatigue = nil }, false},
		{"target zero allowed", func(r *ScoreRequest) { r.WaterTargetLiters = 0 }, false},
		{"systolic implausible", func(r *ScoreRequest) { r.Systolic = 350 }, true},
		{"systolic missing", func(r *ScoreRequest) { r.Systolic = 0 }, true},
		{"diastolic implausible", func(r *ScoreRequest) { r.Diastolic = 250 }, true},
		{"negative intake", func(r *ScoreRequest) { r.WaterIntakeLiters = -1 }, true},
		{"height too small", func(r *ScoreRequest) { r.HeightCm = 30 }, true},
		{"height missing", func(r *ScoreRequest) { r.HeightCm = 0 }, true},
		{"weight implausible", func(r *ScoreRequest) { r.WeightKg = 600 }, true},
		{"symptom above scale", func(r *ScoreRequest) { r.Pain = fp(11) }, true},
		{"symptom below scale", func(r *ScoreRequest) { r.Stress = fp(-1) }, true},
		{"symptom zero allowed", func(r *ScoreRequest) { r.Fatigue = fp(0) }, false},
		{"demographics valid", func(r *ScoreRequest) {
			r.Demographics = &DemographicsRequest{Age: ip(45), SexAtBirth: "female", CKDStage: ip(3)}
		}, false},
		{"age implausible", func(r *ScoreRequest) {
			r.Demographics = &DemographicsRequest{Age: ip(150)}
		}, true},
		{"ckd stage out of range", func(r *ScoreRequest) {
			r.Demographics = &DemographicsRequest{CKDStage: ip(6)}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validScoreRequest()
			tt.mutate(&request)
			err := request.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScoreRequestToInput(t *testing.T) {
	request := validScoreRequest()
	request.Stress = fp(7)

	input := request.ToInput()

	if input.Systolic != request.Systolic || input.Diastolic != request.Diastolic {
		t.Error("ToInput() dropped vitals")
	}
	if input.WaterIntake != 1.8 || input.WaterTarget != 2.5 {
		t.Error("ToInput() dropped hydration values")
	}
	if input.Fatigue == nil || *input.Fatigue != 4 {
		t.Error("ToInput() dropped reported fatigue")
	}
	if input.Pain != nil {
		t.Error("ToInput() invented a pain report")
	}
	if input.Stress == nil || *input.Stress != 7 {
		t.Error("ToInput() dropped reported stress")
	}
}

func TestScoreRequestToDemographics(t *testing.T) {
	request := validScoreRequest()
	if request.ToDemographics() != nil {
		t.Error("ToDemographics() should be nil when the block is absent")
	}

	request.Demographics = &DemographicsRequest{
		Age:           ip(67),
		SexAtBirth:    "female",
		RaceEthnicity: "Black",
		CKDStage:      ip(3),
	}
	demo := request.ToDemographics()
	if demo == nil {
		t.Fatal("ToDemographics() = nil, want mapped demographics")
	}
	if demo.Age == nil || *demo.Age != 67 {
		t.Error("ToDemographics() dropped age")
	}
	if demo.SexAtBirth != "female" || demo.RaceEthnicity != "Black" {
		t.Error("ToDemographics() dropped text attributes")
	}
	if demo.CKDStage == nil || *demo.CKDStage != 3 {
		t.Error("ToDemographics() dropped CKD stage")
	}
}

func TestGFRRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request GFRRequest
		wantErr bool
	}{
		{"valid", GFRRequest{Age: 45, SexAtBirth: "female", SerumCreatinine: 1.0}, false},
		{"sex optional", GFRRequest{Age: 45, SerumCreatinine: 1.0}, false},
		{"age missing", GFRRequest{SerumCreatinine: 1.0}, true},
		{"age implausible", GFRRequest{Age: 130, SerumCreatinine: 1.0}, true},
		{"creatinine missing", GFRRequest{Age: 45}, true},
		{"creatinine implausible", GFRRequest{Age: 45, SerumCreatinine: 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
