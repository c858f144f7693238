package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Timetable scheduling, conflict detection and generation",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Terms", "description": "Academic term management"},
        {"name": "Schedule Config", "description": "Working days and lunch configuration"},
        {"name": "Timetable", "description": "Slots, conflicts, validation and suggestions"},
        {"name": "Templates", "description": "Versioned timetable templates"},
        {"name": "Generator", "description": "Automatic timetable generation"},
        {"name": "Constraints", "description": "Teacher and room constraints"}
    ],
    "paths": {
        "/terms": {
            "get": {
                "tags": ["Terms"],
                "summary": "List terms",
                "parameters": [
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Terms"],
                "summary": "Create term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTermRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/active": {
            "get": {
                "tags": ["Terms"],
                "summary": "Resolve the active term",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No active term"}
                }
            }
        },
        "/terms/{id}": {
            "get": {
                "tags": ["Terms"],
                "summary": "Get term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms/{id}/activate": {
            "put": {
                "tags": ["Terms"],
                "summary": "Activate term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule-config": {
            "get": {
                "tags": ["Schedule Config"],
                "summary": "Resolve schedule configuration",
                "parameters": [
                    {"name": "termId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedule Config"],
                "summary": "Upsert schedule configuration",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertScheduleConfigRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/conflicts": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Detect conflicts for a term",
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "weekVariant", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/validate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Validate a candidate placement",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidatePlacementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/periods": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List the period axis of a term's academic year",
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/slots": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List a term's slots",
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Timetable"],
                "summary": "Upsert a timetable slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Placement rejected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Timetable"],
                "summary": "Delete a timetable slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteSlotRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Slot not found"}
                }
            }
        },
        "/timetable/suggestions": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Suggest free slots",
                "parameters": [
                    {"name": "termId", "in": "query", "required": true, "type": "string"},
                    {"name": "teacherId", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "subjectId", "in": "query", "type": "string"},
                    {"name": "weekVariant", "in": "query", "type": "string"},
                    {"name": "preferredDays", "in": "query", "type": "string"},
                    {"name": "preferredPeriods", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/templates": {
            "get": {
                "tags": ["Templates"],
                "summary": "List templates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Templates"],
                "summary": "Capture a template from a term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTemplateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/templates/{id}": {
            "get": {
                "tags": ["Templates"],
                "summary": "Get template",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/templates/{id}/apply": {
            "post": {
                "tags": ["Templates"],
                "summary": "Apply a template onto a term",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplyTemplateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/templates/{id}/default": {
            "put": {
                "tags": ["Templates"],
                "summary": "Mark template as default",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Generator"],
                "summary": "Generate a timetable preview",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/generate/commit": {
            "post": {
                "tags": ["Generator"],
                "summary": "Commit a generated preview",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CommitPreviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Preview expired"}
                }
            }
        },
        "/teachers/{id}/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "Get teacher constraints",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Constraints"],
                "summary": "Upsert teacher constraints",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTeacherConstraintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "Get room constraints",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Constraints"],
                "summary": "Upsert room constraints",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertRoomConstraintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Slot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "school_id": {"type": "string"},
                "term_id": {"type": "string"},
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "week_variant": {"type": "string"}
            }
        },
        "SlotConflict": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["TEACHER", "ROOM"]},
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "slot_a": {"$ref": "#/definitions/Slot"},
                "slot_b": {"$ref": "#/definitions/Slot"}
            }
        },
        "CreateTermRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "academic_year": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            },
            "required": ["name", "academic_year", "start_date", "end_date"]
        },
        "UpsertScheduleConfigRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "working_days": {"type": "array", "items": {"type": "integer"}},
                "lunch_after_period": {"type": "integer"}
            },
            "required": ["working_days"]
        },
        "ValidatePlacementRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "week_variant": {"type": "string"}
            },
            "required": ["term_id", "class_id", "teacher_id", "day_of_week", "period_id"]
        },
        "UpsertSlotRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "class_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "week_variant": {"type": "string"}
            },
            "required": ["term_id", "class_id", "subject_id", "teacher_id", "day_of_week", "period_id"]
        },
        "DeleteSlotRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "class_id": {"type": "string"},
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "week_variant": {"type": "string"}
            },
            "required": ["term_id", "class_id", "day_of_week", "period_id"]
        },
        "CreateTemplateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "source_term_id": {"type": "string"}
            },
            "required": ["name", "source_term_id"]
        },
        "ApplyTemplateRequest": {
            "type": "object",
            "properties": {
                "target_term_id": {"type": "string"},
                "replace_existing": {"type": "boolean"},
                "teacher_mapping": {"type": "object"},
                "room_mapping": {"type": "object"}
            },
            "required": ["target_term_id"]
        },
        "GenerateRequest": {
            "type": "object",
            "properties": {
                "term_id": {"type": "string"},
                "week_variant": {"type": "string"},
                "config": {"$ref": "#/definitions/GenerationConfig"}
            },
            "required": ["term_id"]
        },
        "GenerationConfig": {
            "type": "object",
            "properties": {
                "max_teacher_periods_per_day": {"type": "integer"},
                "max_consecutive_periods": {"type": "integer"},
                "require_lunch_break": {"type": "boolean"},
                "lunch_resets_consecutive": {"type": "boolean"},
                "balance_subject_distribution": {"type": "boolean"},
                "prefer_morning_for_core": {"type": "boolean"},
                "avoid_last_period_for_lab": {"type": "boolean"},
                "group_same_subject_days": {"type": "boolean"},
                "prevent_back_to_back": {"type": "boolean"},
                "enforce_teacher_expertise": {"type": "boolean"}
            }
        },
        "CommitPreviewRequest": {
            "type": "object",
            "properties": {
                "preview_id": {"type": "string"},
                "term_id": {"type": "string"},
                "replace_existing": {"type": "boolean"}
            },
            "required": ["preview_id", "term_id"]
        },
        "UpsertTeacherConstraintRequest": {
            "type": "object",
            "properties": {
                "max_periods_per_day": {"type": "integer"},
                "max_periods_per_week": {"type": "integer"},
                "max_consecutive_periods": {"type": "integer"},
                "min_free_periods_per_day": {"type": "integer"},
                "day_preferences": {"type": "object"},
                "unavailable": {"type": "array", "items": {"$ref": "#/definitions/UnavailableBlock"}}
            }
        },
        "UnavailableBlock": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "UpsertRoomConstraintRequest": {
            "type": "object",
            "properties": {
                "reserved_periods": {"type": "array", "items": {"$ref": "#/definitions/ReservedPeriod"}},
                "maintenance": {"type": "array", "items": {"$ref": "#/definitions/MaintenanceBlock"}}
            }
        },
        "ReservedPeriod": {
            "type": "object",
            "properties": {
                "day_of_week": {"type": "integer"},
                "period_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "MaintenanceBlock": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
