// Package docs holds the OpenAPI document served at /api/v1/swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"Bearer": []}],
    "paths": {
        "/login": {
            "post": {
                "tags": ["users"],
                "summary": "Exchange credentials for an access token",
                "security": [],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/user.LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}
            }
        },
        "/company-availability": {
            "post": {
                "tags": ["availability"],
                "summary": "Add a company availability slot",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/availability.CompanySlotRequest"}}],
                "responses": {"200": {"description": "Already present"}, "201": {"description": "Created"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}
            }
        },
        "/company-availability/remove": {
            "post": {
                "tags": ["availability"],
                "summary": "Remove a company availability slot and its bookings",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/availability.CompanySlotRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/availabilities/clear": {
            "post": {
                "tags": ["availability"],
                "summary": "Delete every influencer availability",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assignments": {
            "get": {
                "tags": ["assignments"],
                "summary": "List bookings",
                "parameters": [
                    {"in": "query", "name": "companyId", "type": "integer"},
                    {"in": "query", "name": "influencerId", "type": "integer"},
                    {"in": "query", "name": "day", "type": "string"},
                    {"in": "query", "name": "shift", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "per_page", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["assignments"],
                "summary": "Book one or more influencers into a company slot",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/assignment.AssignRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "404": {"description": "Not found"}, "409": {"description": "Conflict"}}
            }
        },
        "/assignments/remove": {
            "post": {
                "tags": ["assignments"],
                "summary": "Remove a single booking",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/assignment.UnassignRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/assignments/slot/remove": {
            "post": {
                "tags": ["assignments"],
                "summary": "Remove every booking of a company slot",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/availability.CompanySlotRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assignments/bulk": {
            "post": {
                "tags": ["assignments"],
                "summary": "Fill every open company slot with an eligible influencer",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/weeks/{id}": {
            "get": {
                "tags": ["weeks"],
                "summary": "Composed weekly schedule",
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/weeks/{id}/export": {
            "get": {
                "tags": ["weeks"],
                "summary": "Composed weekly schedule as xlsx",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/company-links": {
            "get": {
                "tags": ["company-links"],
                "summary": "Paginated payment links",
                "parameters": [
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "month", "type": "string"},
                    {"in": "query", "name": "company", "type": "integer"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "per_page", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/calendar/month": {
            "get": {
                "tags": ["tasks"],
                "summary": "Tasks of a month grouped by company and date",
                "parameters": [
                    {"in": "query", "name": "year", "type": "integer"},
                    {"in": "query", "name": "month", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "field": {"type": "string"}}
        },
        "user.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "availability.CompanySlotRequest": {
            "type": "object",
            "required": ["companyId", "day", "shift"],
            "properties": {"companyId": {"type": "integer"}, "day": {"type": "string"}, "shift": {"type": "string"}}
        },
        "assignment.AssignRequest": {
            "type": "object",
            "required": ["companyId", "day", "shift"],
            "properties": {
                "companyId": {"type": "integer"},
                "day": {"type": "string"},
                "shift": {"type": "string"},
                "influencerId": {"type": "integer"},
                "influencerIds": {"type": "array", "items": {"type": "integer"}},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "13:00"}
            }
        },
        "assignment.UnassignRequest": {
            "type": "object",
            "required": ["bookingId"],
            "properties": {"bookingId": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "admus-server API",
	Description:      "Back office for influencer scheduling, tasks and payment links.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
