package mcp

// SessionInput addresses an existing session.
type SessionInput struct {
	SessionID string `json:"sessionId" jsonschema:"Session ID returned by hwsim_create_session"`
}

// CreateSessionInput defines the input for hwsim_create_session.
type CreateSessionInput struct {
	Seed *uint64 `json:"seed,omitempty" jsonschema:"Seed for a reproducible run; random when omitted"`
}

// CreateSessionOutput defines the output for hwsim_create_session.
type CreateSessionOutput struct {
	SessionID string `json:"sessionId" jsonschema:"ID of the new session"`
	Seed      uint64 `json:"seed" jsonschema:"Seed every random draw derives from"`
	State     string `json:"state" jsonschema:"Current exercise phase"`
}

// PopulationInput defines the input for hwsim_define_population.
type PopulationInput struct {
	SessionID string `json:"sessionId" jsonschema:"Session ID"`
	Dominant  int    `json:"dominant" jsonschema:"Observed homozygous dominant (RR, blue) count"`
	Recessive int    `json:"recessive" jsonschema:"Observed homozygous recessive (rr, green) count"`
}

// CandidateInput defines the input for hwsim_propose_frequency.
type CandidateInput struct {
	SessionID string  `json:"sessionId" jsonschema:"Session ID"`
	P         float64 `json:"p" jsonschema:"Candidate frequency of allele R in [0,1], snapped to hundredths"`
}

// Counts mirrors a genotype partition.
type Counts struct {
	Dominant     int `json:"dominant"`
	Heterozygous int `json:"heterozygous"`
	Recessive    int `json:"recessive"`
}

// MatchOutput reports how a candidate compares with the observed population.
type MatchOutput struct {
	State            string  `json:"state" jsonschema:"Current exercise phase"`
	P                float64 `json:"p" jsonschema:"Candidate frequency of allele R"`
	Q                float64 `json:"q" jsonschema:"Frequency of allele r (1-p)"`
	Observed         Counts  `json:"observed" jsonschema:"Observed genotype counts"`
	Theoretical      Counts  `json:"theoretical" jsonschema:"Hardy-Weinberg counts for p"`
	Matched          bool    `json:"matched" jsonschema:"Whether every class is within tolerance"`
	Attempts         int     `json:"attempts" jsonschema:"Candidate changes since the last overwrite"`
	OverwriteOffered bool    `json:"overwriteOffered" jsonschema:"Whether hwsim_overwrite is available"`
	Warning          string  `json:"warning,omitempty" jsonschema:"Advisory about the entered population"`
}

// StartInput defines the input for hwsim_start.
type StartInput struct {
	SessionID   string `json:"sessionId" jsonschema:"Session ID"`
	Multipliers []int  `json:"multipliers,omitempty" jsonschema:"Population multipliers for the paired tracks (default 1 and 2)"`
}

// AdvanceInput defines the input for hwsim_advance.
type AdvanceInput struct {
	SessionID string `json:"sessionId" jsonschema:"Session ID"`
	Group     string `json:"group,omitempty" jsonschema:"Track group: paired (default) or drift"`
	Track     *int   `json:"track,omitempty" jsonschema:"Drift track index; omit to advance the whole group"`
	Steps     int    `json:"steps" jsonschema:"Generations to advance (positive)"`
}

// TrackSummary is the latest generation of one track.
type TrackSummary struct {
	Name       string  `json:"name"`
	Group      string  `json:"group"`
	Size       int     `json:"size"`
	Generation int     `json:"generation"`
	P          float64 `json:"p"`
	Q          float64 `json:"q"`
}

// TracksOutput lists the tracks a command created or moved.
type TracksOutput struct {
	State  string         `json:"state" jsonschema:"Current exercise phase"`
	Tracks []TrackSummary `json:"tracks" jsonschema:"Affected tracks"`
}

// StateOutput reports the phase after a command.
type StateOutput struct {
	State         string `json:"state" jsonschema:"Current exercise phase"`
	DriftReady    bool   `json:"driftReady" jsonschema:"Whether hwsim_begin_drift would be accepted"`
	ConcludeReady bool   `json:"concludeReady" jsonschema:"Whether hwsim_conclude would be accepted"`
}

// TrackStatsSummary is the drift summary of one track.
type TrackStatsSummary struct {
	Name        string  `json:"name"`
	Group       string  `json:"group"`
	Size        int     `json:"size"`
	Generations int     `json:"generations"`
	InitialP    float64 `json:"initialP"`
	CurrentP    float64 `json:"currentP"`
	MeanP       float64 `json:"meanP"`
	VarianceP   float64 `json:"varianceP"`
	MinP        float64 `json:"minP"`
	MaxP        float64 `json:"maxP"`
	Fixed       bool    `json:"fixed"`
}

// StatsOutput defines the output for hwsim_stats.
type StatsOutput struct {
	State string              `json:"state" jsonschema:"Current exercise phase"`
	Stats []TrackStatsSummary `json:"stats" jsonschema:"Drift statistics per track, paired first"`
}
