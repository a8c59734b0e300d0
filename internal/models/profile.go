// internal/models/profile.go
package models

// Profile is the subset of the profiles table the workers read.
type Profile struct {
	ID               string `json:"id" db:"id"`
	Email            string `json:"email" db:"email"`
	FullName         string `json:"fullName" db:"full_name"`
	SubscriptionTier string `json:"subscriptionTier" db:"subscription_tier"`
}
