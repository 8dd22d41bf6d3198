package models

import "time"

// BlockID is the composite key of a block. (A, B) and (B, A) are distinct blocks.
type BlockID struct {
	BlockingUserID int64 `json:"blocking_user_id"`
	BlockedUserID  int64 `json:"blocked_user_id"`
}

// Block records that BlockingUserID blocked BlockedUserID.
type Block struct {
	ID        BlockID
	CreatedAt time.Time
}

// FavoriteID is the composite key of a favorite, ordered like BlockID.
type FavoriteID struct {
	UserID         int64 `json:"user_id"`
	FavoriteUserID int64 `json:"favorite_user_id"`
}

// Favorite records that UserID marked FavoriteUserID as a favorite.
type Favorite struct {
	ID        FavoriteID
	CreatedAt time.Time
}

// ValidPair reports whether two user ids can form a relation: both set and distinct.
func ValidPair(userID, otherID int64) bool {
	return userID > 0 && otherID > 0 && userID != otherID
}
