package dynamo

// DynamoDB attribute and index names shared by the repos and Bootstrap.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID    = "user_id"
	fieldEmail     = "email"
	fieldFileID    = "file_id"
	fieldParentID  = "parent_id"
	fieldIsPublic  = "is_public"
	fieldUpdatedAt = "updated_at"

	indexEmail    = "email-index"
	indexParentID = "parent_id-index"
)
