package web

import (
	"testing"
)

func Test_newMatchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		match   newMatchRequest
		wantErr bool
	}{
		{
			name: "win",
			match: newMatchRequest{
				Winner: "Алиса",
				Loser:  "Боб",
			},
			wantErr: false,
		},
		{
			name: "draw",
			match: newMatchRequest{
				Winner: "Алиса",
				Loser:  "Боб",
				Draw:   true,
			},
			wantErr: false,
		},
		{
			name: "missing winner",
			match: newMatchRequest{
				Loser: "Боб",
			},
			wantErr: true,
		},
		{
			name: "missing loser",
			match: newMatchRequest{
				Winner: "Алиса",
			},
			wantErr: true,
		},
		{
			name:    "missing both",
			match:   newMatchRequest{},
			wantErr: true,
		},
		{
			name: "same player",
			match: newMatchRequest{
				Winner: "Алиса",
				Loser:  "алиса",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.match.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_newMatchRequest_Score(t *testing.T) {
	if got := (newMatchRequest{Winner: "a", Loser: "b"}).Score(); got != 1 {
		t.Errorf("Score() = %v, want 1", got)
	}
	if got := (newMatchRequest{Winner: "a", Loser: "b", Draw: true}).Score(); got != 0.5 {
		t.Errorf("Score() = %v, want 0.5", got)
	}
}
