package core

import (
	"encoding/json"
	"net/http"
)

// precomputeBasicResponse renders a fixed response at init time. The JSON
// body is marshaled once and stored as bytes, so request handling just
// writes the precomputed slice.
func precomputeBasicResponse(status int, ok bool, message string) jsonResponse {
	basic := JsonBasic{
		Status:  ok,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest       = precomputeBasicResponse(http.StatusBadRequest, false, "The request contains invalid data")
	errorInvalidContentType   = precomputeBasicResponse(http.StatusUnsupportedMediaType, false, "Unsupported media type")
	errorInvalidCredentials   = precomputeBasicResponse(http.StatusUnauthorized, false, "Invalid credentials provided")
	errorTokenGeneration      = precomputeBasicResponse(http.StatusInternalServerError, false, "Failed to generate authentication token")
	errorNoAuthHeader         = precomputeBasicResponse(http.StatusUnauthorized, false, "Authorization header is required")
	errorInvalidTokenFormat   = precomputeBasicResponse(http.StatusUnauthorized, false, "Invalid authorization token format")
	errorJwtTokenExpired      = precomputeBasicResponse(http.StatusUnauthorized, false, "Authentication token has expired")
	errorJwtInvalidSignMethod = precomputeBasicResponse(http.StatusUnauthorized, false, "Invalid token signing method")
	errorJwtInvalidToken      = precomputeBasicResponse(http.StatusUnauthorized, false, "Invalid authentication token")
	errorTokenRevoked         = precomputeBasicResponse(http.StatusUnauthorized, false, "Authentication token has been revoked")
	errorAuthDatabaseError    = precomputeBasicResponse(http.StatusInternalServerError, false, "Database error during authentication")
	errorInternal             = precomputeBasicResponse(http.StatusInternalServerError, false, "Something went wrong, please try again")

	errorInvalidOrExpiredOtp        = precomputeBasicResponse(http.StatusUnauthorized, false, "Invalid or expired OTP")
	errorInvalidOrExpiredResetToken = precomputeBasicResponse(http.StatusUnauthorized, false, "Invalid or expired reset token")
	errorIdentityConflict           = precomputeBasicResponse(http.StatusUnprocessableEntity, false, "Email or phone number is already registered")

	errorGroupNotFound       = precomputeBasicResponse(http.StatusNotFound, false, "Group not found")
	errorNotGroupMember      = precomputeBasicResponse(http.StatusForbidden, false, "You are not a member of this group")
	errorNotGroupOwner       = precomputeBasicResponse(http.StatusForbidden, false, "Only the group owner can do this")
	errorGroupSharingOff     = precomputeBasicResponse(http.StatusForbidden, false, "This group is not accepting new members")
	errorAlreadyMember       = precomputeBasicResponse(http.StatusUnprocessableEntity, false, "User is already a member of this group")
	errorInvalidShareCode    = precomputeBasicResponse(http.StatusUnprocessableEntity, false, "Invalid share code")
	errorMemberNotFound      = precomputeBasicResponse(http.StatusNotFound, false, "Group member not found")
	errorUserNotFound        = precomputeBasicResponse(http.StatusUnprocessableEntity, false, "No user found with this email")
	errorRecipientsNotMember = precomputeBasicResponse(http.StatusUnprocessableEntity, false, "Some selected users are not group members")

	// oks
	okRegistrationOtpSent = precomputeBasicResponse(http.StatusOK, true, "OTP sent to your email. Please verify to complete registration.")
	okPasswordResetAck    = precomputeBasicResponse(http.StatusOK, true, "If the email exists, an OTP has been sent to it.")
	okPasswordReset       = precomputeBasicResponse(http.StatusOK, true, "Password has been reset successfully")
	okLogout              = precomputeBasicResponse(http.StatusOK, true, "Logged out successfully")
	okGroupUpdated        = precomputeBasicResponse(http.StatusOK, true, "Group updated successfully")
	okGroupDeleted        = precomputeBasicResponse(http.StatusOK, true, "Group deleted successfully")
	okMemberRemoved       = precomputeBasicResponse(http.StatusOK, true, "Member removed successfully")
)
