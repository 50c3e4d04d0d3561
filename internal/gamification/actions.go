package gamification

import (
	"github.com/captaindev404/prd-tools-sub000/internal/models"
)

// Action names a user event that earns points.
type Action string

const (
	ActionFeedbackSubmitted      Action = "feedback_submitted"
	ActionVoteCast               Action = "vote_cast"
	ActionVoteReceived           Action = "vote_received"
	ActionCommentAdded           Action = "comment_added"
	ActionQuestionnaireCompleted Action = "questionnaire_completed"
	ActionFeedbackShipped        Action = "feedback_shipped"

	// ActionBadgeEarned is the one data-driven action: its point value comes
	// from AwardOptions.BonusOverride (the achievement's bonus), not from the
	// static table.
	ActionBadgeEarned Action = "badge_earned"
)

type actionRule struct {
	Points   int
	Category models.PointCategory
}

// actionTable maps every recognized action to its point value and category.
// badge_earned is intentionally absent; see ActionBadgeEarned.
var actionTable = map[Action]actionRule{
	ActionFeedbackSubmitted:      {Points: 15, Category: models.PointCategoryFeedback},
	ActionVoteCast:               {Points: 5, Category: models.PointCategoryVoting},
	ActionVoteReceived:           {Points: 2, Category: models.PointCategoryQuality},
	ActionCommentAdded:           {Points: 5, Category: models.PointCategoryFeedback},
	ActionQuestionnaireCompleted: {Points: 25, Category: models.PointCategoryResearch},
	ActionFeedbackShipped:        {Points: 50, Category: models.PointCategoryQuality},
}
