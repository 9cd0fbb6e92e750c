package model

// BadgeRankingEntry 徽章排行榜的一行
type BadgeRankingEntry struct {
	UserID     uint   `json:"userId"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	BadgeCount int64  `json:"badgeCount"`
}
