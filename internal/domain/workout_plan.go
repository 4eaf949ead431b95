package domain

import "time"

// ExerciseOverride replaces the program defaults of an exercise within one plan day.
type ExerciseOverride struct {
	Sets     *int `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps     *int `bson:"reps,omitempty" json:"reps,omitempty"`
	RestTime *int `bson:"restTime,omitempty" json:"restTime,omitempty"`
}

// WorkoutDay is one day of a WorkoutPlan.
type WorkoutDay struct {
	Name        string                      `bson:"name" json:"name"`
	ExerciseIDs []string                    `bson:"exerciseIds" json:"exerciseIds"`
	Overrides   map[string]ExerciseOverride `bson:"overrides,omitempty" json:"overrides,omitempty"`
}

// WorkoutPlan is a user-built schedule other users can join.
type WorkoutPlan struct {
	ID            string       `bson:"_id" json:"id"`
	CreatorID     string       `bson:"creatorId" json:"creatorId"`
	Name          string       `bson:"name" json:"name"`
	Description   string       `bson:"description" json:"description"`
	DaysPerWeek   int          `bson:"daysPerWeek" json:"daysPerWeek"`
	FocusAreas    []string     `bson:"focusAreas" json:"focusAreas"`
	RestDays      []string     `bson:"restDays" json:"restDays"`
	Days          []WorkoutDay `bson:"days" json:"days"`
	JoinedUserIDs []string     `bson:"joinedUserIds" json:"joinedUserIds"`
	CreatedAt     time.Time    `bson:"createdAt" json:"createdAt"`
}

// HasMember reports whether userID created or joined the plan.
func (p *WorkoutPlan) HasMember(userID string) bool {
	if p.CreatorID == userID {
		return true
	}
	for _, id := range p.JoinedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
