package routes

const (
	// Health
	Health = "/health"

	// Reference data
	WorkersBase    = "/api/v1/workers"
	WorkerByID     = "/api/v1/workers/{id}"
	BuildingsBase  = "/api/v1/buildings"
	BuildingByID   = "/api/v1/buildings/{id}"
	ApartmentsBase = "/api/v1/apartments"
	ApartmentByID  = "/api/v1/apartments/{id}"

	// Phone issues
	PhoneIssuesBase  = "/api/v1/phone-issues"
	PhoneIssueByID   = "/api/v1/phone-issues/{id}"
	PhoneIssueStatus = "/api/v1/phone-issues/{id}/status"
	PhoneIssueWorker = "/api/v1/phone-issues/{id}/worker"

	// Bulk shorthand import
	ImportDirectory   = "/api/v1/directory"
	ImportPhoneIssues = "/api/v1/import/phone-issues"
	ImportPreview     = "/api/v1/import/phone-issues/preview"

	// Fire-alarm panel dashboard
	PanelBuildingDevices = "/api/v1/firepanel/buildings/{id}/devices"
	PanelDeviceOverride  = "/api/v1/firepanel/buildings/{id}/devices/{deviceID}/override"
)
