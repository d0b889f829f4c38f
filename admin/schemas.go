package admin

import "github.com/minhloc/listquery/core/schema"

// Collection names.
const (
	CustomersCollection    = "customers"
	ActivityLogsCollection = "activity_logs"
	PositionsCollection    = "job_positions"
	ApplicationsCollection = "job_applications"
	RolesCollection        = "user_roles"
)

func field(name string, t schema.FieldType, opts ...func(*schema.FieldDefinition)) *schema.FieldDefinition {
	f := &schema.FieldDefinition{Name: name, Type: t}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func required(f *schema.FieldDefinition)   { f.Required = true }
func searchable(f *schema.FieldDefinition) { f.Searchable = true }
func filterable(f *schema.FieldDefinition) { f.Filterable = true }
func sortable(f *schema.FieldDefinition)   { f.Sortable = true }

func oneOf(values ...string) func(*schema.FieldDefinition) {
	return func(f *schema.FieldDefinition) {
		f.Values = values
		f.Filterable = true
	}
}

func newSchema(name, description string, fields ...*schema.FieldDefinition) *schema.SchemaDefinition {
	sc := &schema.SchemaDefinition{
		Name:        name,
		Description: description,
		Fields:      make(map[string]*schema.FieldDefinition, len(fields)),
		Order:       make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		sc.Fields[f.Name] = f
		sc.Order = append(sc.Order, f.Name)
	}
	return sc
}

// CustomerSchema describes the customers collection.
func CustomerSchema() *schema.SchemaDefinition {
	return newSchema(CustomersCollection, "Customers and leads",
		field("id", schema.FieldTypeInteger, required, sortable),
		field("name", schema.FieldTypeString, required, searchable, sortable),
		field("email", schema.FieldTypeString, searchable),
		field("phone", schema.FieldTypeString, searchable),
		field("type", schema.FieldTypeEnum, oneOf("individual", "business")),
		field("status", schema.FieldTypeEnum, required, oneOf("active", "inactive", "potential")),
		field("source", schema.FieldTypeEnum, oneOf("website", "referral", "event", "hotline")),
		field("totalSpent", schema.FieldTypeNumber, filterable, sortable),
		field("createdAt", schema.FieldTypeTime, required, sortable),
	)
}

// ActivityLogSchema describes the activity_logs collection.
func ActivityLogSchema() *schema.SchemaDefinition {
	return newSchema(ActivityLogsCollection, "Audit trail of console actions",
		field("id", schema.FieldTypeInteger, required, sortable),
		field("user", schema.FieldTypeString, required, searchable, sortable),
		field("action", schema.FieldTypeEnum, required, oneOf("create", "update", "delete", "login", "logout")),
		field("module", schema.FieldTypeEnum, oneOf("customers", "careers", "roles", "business", "auth")),
		field("status", schema.FieldTypeEnum, required, oneOf("success", "failed")),
		field("ipAddress", schema.FieldTypeString, searchable),
		field("description", schema.FieldTypeString, searchable),
		field("timestamp", schema.FieldTypeTime, required, sortable),
	)
}

// JobPositionSchema describes the job_positions collection.
func JobPositionSchema() *schema.SchemaDefinition {
	return newSchema(PositionsCollection, "Openings on the careers page",
		field("id", schema.FieldTypeInteger, required, sortable),
		field("title", schema.FieldTypeString, required, searchable, sortable),
		field("department", schema.FieldTypeEnum, oneOf("sales", "marketing", "engineering", "finance", "operations")),
		field("location", schema.FieldTypeString, searchable, filterable),
		field("type", schema.FieldTypeEnum, oneOf("full-time", "part-time", "contract", "internship")),
		field("status", schema.FieldTypeEnum, required, oneOf("open", "closed", "draft")),
		field("salaryMin", schema.FieldTypeNumber, filterable, sortable),
		field("salaryMax", schema.FieldTypeNumber, filterable, sortable),
		field("applicants", schema.FieldTypeInteger, filterable, sortable),
		field("postedAt", schema.FieldTypeTime, sortable),
	)
}

// JobApplicationSchema describes the job_applications collection.
func JobApplicationSchema() *schema.SchemaDefinition {
	return newSchema(ApplicationsCollection, "Applications received for job positions",
		field("id", schema.FieldTypeInteger, required, sortable),
		field("candidate", schema.FieldTypeString, required, searchable, sortable),
		field("email", schema.FieldTypeString, searchable),
		field("position", schema.FieldTypeString, searchable, filterable),
		field("status", schema.FieldTypeEnum, required, oneOf("new", "reviewing", "interview", "offered", "hired", "rejected")),
		field("experience", schema.FieldTypeInteger, filterable, sortable),
		field("score", schema.FieldTypeNumber, filterable, sortable),
		field("appliedAt", schema.FieldTypeTime, required, sortable),
	)
}

// UserRoleSchema describes the user_roles collection.
func UserRoleSchema() *schema.SchemaDefinition {
	return newSchema(RolesCollection, "Console roles and their permissions",
		field("id", schema.FieldTypeInteger, required, sortable),
		field("name", schema.FieldTypeString, required, searchable, sortable),
		field("description", schema.FieldTypeString, searchable),
		field("users", schema.FieldTypeInteger, filterable, sortable),
		field("permissions", schema.FieldTypeArray),
		field("status", schema.FieldTypeEnum, required, oneOf("active", "inactive")),
		field("createdAt", schema.FieldTypeTime, sortable),
	)
}

// Schemas returns the schema of every console collection.
func Schemas() []*schema.SchemaDefinition {
	return []*schema.SchemaDefinition{
		CustomerSchema(),
		ActivityLogSchema(),
		JobPositionSchema(),
		JobApplicationSchema(),
		UserRoleSchema(),
	}
}
