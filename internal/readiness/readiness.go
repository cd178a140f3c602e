package readiness

import "math"

// States returned by Compute.
const (
	StateReady          = "READY"
	StateBorderline     = "BORDERLINE"
	StateNotRecommended = "NOT RECOMMENDED"
)

const maxRecommendations = 3

// RouteAttributes describe what a route demands, each on a 0..10 scale.
type RouteAttributes struct {
	Difficulty    int `json:"difficulty"`
	ElevationLoad int `json:"elevationLoad"`
	DistanceLoad  int `json:"distanceLoad"`
	Exposure      int `json:"exposure"`
	Weather       int `json:"weather"`
}

// UserAttributes describe what the hiker brings, each on a 0..10 scale.
type UserAttributes struct {
	Fitness    int `json:"fitness"`
	Skill      int `json:"skill"`
	Experience int `json:"experience"`
	Gear       int `json:"gear"`
	Recovery   int `json:"recovery"`
}

type Result struct {
	Score           int      `json:"score"`
	State           string   `json:"state"`
	GateFailures    []string `json:"gateFailures"`
	Recommendations []string `json:"recommendations"`
}

func (r RouteAttributes) clamped() RouteAttributes {
	return RouteAttributes{
		Difficulty:    clampInt(r.Difficulty, 0, 10),
		ElevationLoad: clampInt(r.ElevationLoad, 0, 10),
		DistanceLoad:  clampInt(r.DistanceLoad, 0, 10),
		Exposure:      clampInt(r.Exposure, 0, 10),
		Weather:       clampInt(r.Weather, 0, 10),
	}
}

func (u UserAttributes) clamped() UserAttributes {
	return UserAttributes{
		Fitness:    clampInt(u.Fitness, 0, 10),
		Skill:      clampInt(u.Skill, 0, 10),
		Experience: clampInt(u.Experience, 0, 10),
		Gear:       clampInt(u.Gear, 0, 10),
		Recovery:   clampInt(u.Recovery, 0, 10),
	}
}

// Demand is the weighted load a route puts on the hiker.
func (r RouteAttributes) Demand() float64 {
	return 0.25*float64(r.Difficulty) +
		0.25*float64(r.ElevationLoad) +
		0.15*float64(r.DistanceLoad) +
		0.20*float64(r.Exposure) +
		0.15*float64(r.Weather)
}

// Capacity is the weighted ability the hiker brings.
func (u UserAttributes) Capacity() float64 {
	return 0.30*float64(u.Fitness) +
		0.25*float64(u.Skill) +
		0.15*float64(u.Experience) +
		0.20*float64(u.Gear) +
		0.10*float64(u.Recovery)
}

// Compute scores how ready a hiker is for a route. Gate failures force
// StateNotRecommended whatever the score. Inputs are clamped to 0..10.
func Compute(route RouteAttributes, user UserAttributes) Result {
	route, user = route.clamped(), user.clamped()

	gates := []string{}
	if route.Exposure >= 8 && user.Skill <= 5 {
		gates = append(gates, "High exposure / insufficient skill")
	}
	if route.Weather >= 8 && user.Gear <= 6 {
		gates = append(gates, "Severe weather / gear insufficient")
	}
	if route.ElevationLoad >= 8 && user.Fitness <= 5 {
		gates = append(gates, "Elevation load exceeds fitness")
	}

	margin := user.Capacity() - route.Demand()
	score := clampInt(jsRound(50+margin*10), 0, 100)
	if user.Recovery <= 3 {
		score -= 10
	}
	if route.Weather >= 7 {
		score -= 5
	}
	score = clampInt(score, 0, 100)

	state := StateBorderline
	switch {
	case len(gates) > 0:
		state = StateNotRecommended
	case score >= 70:
		state = StateReady
	case score < 50:
		state = StateNotRecommended
	}

	recs := []string{}
	if user.Fitness < route.ElevationLoad {
		recs = append(recs, "Reduce elevation or improve aerobic base")
	}
	if user.Skill < route.Difficulty {
		recs = append(recs, "Choose less technical terrain")
	}
	if user.Gear < route.Weather {
		recs = append(recs, "Upgrade weather protection layers")
	}
	if user.Recovery < 5 {
		recs = append(recs, "Prioritize recovery before attempt")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	return Result{
		Score:           score,
		State:           state,
		GateFailures:    gates,
		Recommendations: recs,
	}
}

// StateColor is the badge colour shown next to a state.
func StateColor(state string) string {
	switch state {
	case StateReady:
		return "#1B5E20"
	case StateNotRecommended:
		return "#B71C1C"
	default:
		return "#E65100"
	}
}

// jsRound rounds half-way values toward +Inf, unlike math.Round.
func jsRound(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
