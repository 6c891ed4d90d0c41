package service

import "github.com/d60-Lab/tuneboxd/pkg/errcode"

var (
	ErrForbidden = errcode.Forbidden("you do not have permission to perform this action")

	ErrUserNotFound       = errcode.NotFound("user not found")
	ErrInvalidCredentials = errcode.Unauthorized("invalid credentials")
	ErrInvalidToken       = errcode.Unauthorized("invalid or expired token")
	ErrIdentityTaken      = errcode.Conflict("username or email is already registered")
	ErrInvalidUsername    = errcode.Validation("username must be 3-30 letters, digits, '.', '-' or '_'")
	ErrWeakPassword       = errcode.Validation("password must be at least 6 characters")
	ErrResetPassword      = errcode.Validation("password must be at least 8 characters and mix three of: lowercase, uppercase, digits, symbols")
	ErrVerificationToken  = errcode.Validation("invalid or expired verification token")

	ErrFollowSelf             = errcode.Validation("you cannot follow yourself")
	ErrAlreadyFollowing       = errcode.Conflict("you are already following this user")
	ErrNotFollowing           = errcode.NotFound("you are not following this user")
	ErrArtistRequired         = errcode.Validation("artist id and name are required")
	ErrAlreadyFollowingArtist = errcode.Conflict("you are already following this artist")
	ErrNotFollowingArtist     = errcode.NotFound("you are not following this artist")

	ErrNotificationNotFound  = errcode.NotFound("notification not found")
	ErrNotificationForbidden = errcode.Forbidden("you cannot modify this notification")

	ErrReviewNotFound  = errcode.NotFound("review not found")
	ErrAlreadyReviewed = errcode.Conflict("you have already reviewed this album")
	ErrInvalidRating   = errcode.Validation("rating must be between 1 and 5")
	ErrAlbumRequired   = errcode.Validation("album spotify_id, name and artist are required")
	ErrReviewTitleLong = errcode.Validation("review title must be at most 200 characters")

	ErrListNotFound       = errcode.NotFound("list not found")
	ErrListNameRequired   = errcode.Validation("list name is required")
	ErrListNameTooLong    = errcode.Validation("list name must be at most 100 characters")
	ErrAlbumAlreadyInList = errcode.Conflict("album is already in this list")
	ErrAlbumNotInList     = errcode.NotFound("album is not in this list")
	ErrInvalidOrderIndex  = errcode.Validation("order_index must be zero or positive")
	ErrCommentEmpty       = errcode.Validation("comment cannot be empty")
	ErrCommentTooLong     = errcode.Validation("comment cannot exceed 500 characters")
	ErrCommentNotFound    = errcode.NotFound("comment not found")

	ErrThreadNotFound  = errcode.NotFound("thread not found")
	ErrThreadTitle     = errcode.Validation("thread title is required and must be at most 200 characters")
	ErrThreadContent   = errcode.Validation("thread content is required")
	ErrThreadLocked    = errcode.Forbidden("thread is locked")
	ErrReplyNotFound   = errcode.NotFound("reply not found")
	ErrReplyEmpty      = errcode.Validation("reply cannot be empty")
	ErrReplyTooLong    = errcode.Validation("reply cannot exceed 2000 characters")
	ErrInvalidLikeType = errcode.Validation("target_type must be thread or reply")

	ErrAlreadyInWatchlist = errcode.Conflict("album is already in your listen list")
	ErrNotInWatchlist     = errcode.NotFound("album is not in your listen list")
	ErrAlreadyListened    = errcode.Conflict("album was already logged as listened on that day")
	ErrListenNotFound     = errcode.NotFound("album not found in your listening history")
	ErrListenTarget       = errcode.Validation("albumId or historyId is required")
	ErrTrackRequired      = errcode.Validation("track id, name and artist are required")
	ErrAlreadyFavorite    = errcode.Conflict("track is already in your favorites")
	ErrNotFavorite        = errcode.NotFound("track is not in your favorites")
)

const (
	maxCommentLength = 500
	maxReplyLength   = 2000
	maxTitleLength   = 200
	maxListName      = 100
)
