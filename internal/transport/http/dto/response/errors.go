package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrInvalidID = ErrorResponse{
		Status:  "error",
		Error:   "invalid_id",
		Details: "Entity id is not a valid UUID",
	}

	ErrRemoteOperationFailed = ErrorResponse{
		Status:  "error",
		Error:   "remote_operation_failed",
		Details: "Remote operation failed",
	}

	ErrImageRejected = ErrorResponse{
		Status:  "error",
		Error:   "image_rejected",
		Details: "Selected file is not an acceptable image",
	}

	ErrSettingsNotLoaded = ErrorResponse{
		Status:  "error",
		Error:   "settings_not_loaded",
		Details: "Site settings have not been loaded yet",
	}
)
