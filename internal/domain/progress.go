package domain

// ProgressLog records one performed set of an exercise.
type ProgressLog struct {
	ID         string  `bson:"_id" json:"id"`
	UserID     string  `bson:"userId" json:"userId"`
	ExerciseID string  `bson:"exerciseId" json:"exerciseId"`
	Date       int64   `bson:"date" json:"date"` // epoch millis
	Weight     float64 `bson:"weight" json:"weight"`
	RepsDone   int     `bson:"repsDone" json:"repsDone"`
	Notes      string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (l ProgressLog) CacheKey() string { return l.ID }
