package seeds

import (
	"log"

	"github.com/captaindev404/prd-tools-sub000/internal/database"
	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

// SeedAchievements inserts the achievement catalog, skipping keys that
// already exist. Safe to run on every startup.
func SeedAchievements() {
	log.Println("Seeding achievement catalog...")

	achievements := []models.Achievement{
		{
			Key:         "streak_week",
			Name:        "Week Warrior",
			Description: "Active 7 days in a row.",
			Icon:        "flame",
			Category:    models.AchievementCategoryStreak,
			Requirement: models.RequireConsecutiveDays,
			Threshold:   7,
			Points:      50,
		},
		{
			Key:         "streak_month",
			Name:        "Habit Builder",
			Description: "Active 30 days in a row.",
			Icon:        "calendar-check",
			Category:    models.AchievementCategoryStreak,
			Requirement: models.RequireConsecutiveDays,
			Threshold:   30,
			Points:      200,
		},
		{
			Key:         "milestone_level_5",
			Name:        "Rising Voice",
			Description: "Reached level 5.",
			Icon:        "trending-up",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireLevel,
			Threshold:   5,
			Points:      50,
		},
		{
			Key:         "milestone_level_10",
			Name:        "Community Leader",
			Description: "Reached level 10.",
			Icon:        "crown",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireLevel,
			Threshold:   10,
			Points:      150,
		},
		{
			Key:         "milestone_1000_points",
			Name:        "Point Collector",
			Description: "Earned 1,000 points.",
			Icon:        "gem",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireTotalPoints,
			Threshold:   1000,
			Points:      100,
		},
		{
			Key:         "milestone_5000_points",
			Name:        "Point Hoarder",
			Description: "Earned 5,000 points.",
			Icon:        "treasure-chest",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireTotalPoints,
			Threshold:   5000,
			Points:      250,
		},
		{
			Key:         "first_feedback",
			Name:        "First Words",
			Description: "Submitted your first feedback.",
			Icon:        "message-square",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireFeedbackCount,
			Threshold:   1,
			Points:      10,
		},
		{
			Key:         "feedback_10",
			Name:        "Serial Contributor",
			Description: "Submitted 10 pieces of feedback.",
			Icon:        "messages-square",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireFeedbackCount,
			Threshold:   10,
			Points:      75,
		},
		{
			Key:         "special_first_vote",
			Name:        "Opinionated",
			Description: "Cast your first vote.",
			Icon:        "thumbs-up",
			Category:    models.AchievementCategorySpecial,
			Requirement: models.RequireVoteCount,
			Threshold:   1,
			Points:      10,
		},
		{
			Key:         "vote_50",
			Name:        "Kingmaker",
			Description: "Cast 50 votes.",
			Icon:        "vote",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireVoteCount,
			Threshold:   50,
			Points:      100,
		},
		{
			Key:         "first_questionnaire",
			Name:        "Research Partner",
			Description: "Completed your first questionnaire.",
			Icon:        "clipboard-check",
			Category:    models.AchievementCategoryMilestone,
			Requirement: models.RequireQuestionnaireCount,
			Threshold:   1,
			Points:      25,
		},
		{
			Key:         "early_adopter",
			Name:        "Early Adopter",
			Description: "Joined during the initial launch phase.",
			Icon:        "star",
			Category:    models.AchievementCategorySpecial,
			Requirement: models.RequireEarlyUser,
			Threshold:   1,
			Points:      50,
		},
		{
			Key:         "completionist",
			Name:        "Completionist",
			Description: "Earned every other achievement.",
			Icon:        "trophy",
			Category:    models.AchievementCategorySpecial,
			Requirement: models.RequireAllBadges,
			Threshold:   1,
			Points:      500,
			Hidden:      true,
		},
	}

	for _, a := range achievements {
		var existing models.Achievement
		if err := database.DB.Where("key = ?", a.Key).First(&existing).Error; err == nil {
			continue
		}

		if err := database.DB.Create(&a).Error; err != nil {
			log.Printf("   Failed to create achievement %s: %v", a.Key, err)
		} else {
			log.Printf("   Achievement defined: %s", a.Key)
		}
	}
}
