package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type SessionID = uuid.UUID
type DeviceID = uuid.UUID
type CredentialID = uuid.UUID
type BlogID = uuid.UUID
type PostID = uuid.UUID
type CommentID = uuid.UUID
type TargetID = uuid.UUID
type ReactionID = uuid.UUID
