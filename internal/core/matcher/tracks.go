package matcher

// Track is a career role a learner can target. A target string selects the
// track when it contains the track name or one of its aliases.
type Track struct {
	Name     string
	Aliases  []string
	Keywords []string
}

// DefaultTracks is checked in order; the first matching track wins.
var DefaultTracks = []Track{
	{
		Name:     "데이터 엔지니어",
		Aliases:  []string{"Data Engineer", "Data Engineering"},
		Keywords: []string{"data", "engineering", "database", "cloud", "infrastructure", "데이터", "엔지니어링"},
	},
	{
		Name:     "AI 모델러",
		Aliases:  []string{"AI Modeler", "AI Engineer", "ML Engineer", "AI 엔지니어"},
		Keywords: []string{"인공지능", "ai", "머신러닝", "machine learning", "deep learning", "딥러닝", "model", "vision", "nlp"},
	},
	{
		Name:     "백엔드 개발자",
		Aliases:  []string{"Backend Developer", "Backend Engineer", "백엔드"},
		Keywords: []string{"backend", "server", "database", "cloud", "java", "spring", "system"},
	},
	{
		Name:     "프론트엔드 개발자",
		Aliases:  []string{"Frontend Developer", "Frontend Engineer", "프론트엔드"},
		Keywords: []string{"frontend", "web", "ui", "ux", "hci"},
	},
}
