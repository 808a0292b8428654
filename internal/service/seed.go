package service

import (
	"time"

	"storygeo/internal/models"
)

// PyramidAdventure is the adventure every new installation starts with
func PyramidAdventure() models.Adventure {
	return models.Adventure{
		ID:       "1",
		Title:    "The Great Pyramid Mystery",
		Location: "Giza, Egypt",
		Era:      "Ancient Egypt",
		Summary:  "Join young scribe Kheti as he discovers how the giant stones were moved!",
		Sections: []models.StorySection{
			{
				ID:       "s1",
				Text:     "Kheti stood before the rising Great Pyramid. It was taller than anything he had ever seen! Thousands of workers were moving massive stones under the hot sun.",
				ImageURL: "https://picsum.photos/seed/egypt1/800/450",
			},
			{
				ID:       "s2",
				Text:     "Using wet sand and heavy ropes, they dragged the limestone across the desert. Kheti marveled at the math and engineering his people used.",
				ImageURL: "https://picsum.photos/seed/egypt2/800/450",
			},
		},
		Quiz: []models.QuizQuestion{
			{
				ID:            "q1",
				Question:      "What did they put on the sand to help drag stones?",
				Options:       []string{"Water", "Oil", "Honey", "Ice"},
				CorrectAnswer: 0,
			},
		},
		CoverImage: "https://picsum.photos/seed/pyramid/400/250",
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
