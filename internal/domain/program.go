package domain

// Program is a named training program published by a trainer.
type Program struct {
	ID          string `bson:"_id" json:"id"`
	TrainerID   string `bson:"trainerId" json:"trainerId"`
	TrainerName string `bson:"trainerName" json:"trainerName"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
}

func (p Program) CacheKey() string { return p.ID }

// Exercise belongs to exactly one Program.
type Exercise struct {
	ID        string `bson:"_id" json:"id"`
	ProgramID string `bson:"programId" json:"programId"`
	Name      string `bson:"name" json:"name"`
	Sets      int    `bson:"sets" json:"sets"`
	Reps      int    `bson:"reps" json:"reps"`
	RestTime  int    `bson:"restTime" json:"restTime"` // seconds
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (e Exercise) CacheKey() string { return e.ID }
