// Package docs holds the generated Swagger specification.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User signup",
                "responses": {"200": {"description": "Signup successful"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User login",
                "responses": {"200": {"description": "Login successful"}}
            }
        },
        "/logout": {
            "delete": {
                "tags": ["Authentication"],
                "summary": "User logout",
                "responses": {"200": {"description": "Logout successful"}}
            }
        },
        "/token/validate": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Validate session token",
                "responses": {"200": {"description": "Valid session token"}}
            }
        },
        "/patient": {
            "get": {
                "tags": ["Patient"],
                "summary": "List child profiles",
                "responses": {"200": {"description": "Patients retrieved"}}
            },
            "post": {
                "tags": ["Patient"],
                "summary": "Create a child profile",
                "responses": {"200": {"description": "Patient created"}}
            }
        },
        "/patient/{id}": {
            "get": {
                "tags": ["Patient"],
                "summary": "Get a child profile",
                "responses": {"200": {"description": "Patient retrieved"}}
            },
            "patch": {
                "tags": ["Patient"],
                "summary": "Update a child profile",
                "responses": {"200": {"description": "Patient updated"}}
            },
            "delete": {
                "tags": ["Patient"],
                "summary": "Delete a child profile",
                "responses": {"200": {"description": "Patient deleted"}}
            }
        },
        "/analysis": {
            "post": {
                "tags": ["Analysis"],
                "summary": "Run a screening analysis",
                "responses": {"200": {"description": "Analysis complete"}}
            }
        },
        "/report": {
            "get": {
                "tags": ["Report"],
                "summary": "List screening reports",
                "responses": {"200": {"description": "Reports retrieved"}}
            }
        },
        "/report/{id}": {
            "get": {
                "tags": ["Report"],
                "summary": "Get a screening report",
                "responses": {"200": {"description": "Report retrieved"}}
            },
            "delete": {
                "tags": ["Report"],
                "summary": "Delete a screening report",
                "responses": {"200": {"description": "Report deleted"}}
            }
        },
        "/report/{id}/pdf": {
            "get": {
                "tags": ["Report"],
                "summary": "Download a report as PDF",
                "responses": {"200": {"description": "PDF document"}}
            }
        },
        "/report/export/excel": {
            "get": {
                "tags": ["Report"],
                "summary": "Download reports as an Excel workbook",
                "responses": {"200": {"description": "Excel workbook"}}
            }
        },
        "/chat": {
            "post": {
                "tags": ["Chatbot"],
                "summary": "Ask the nutrition assistant",
                "responses": {"200": {"description": "Reply generated"}}
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "responses": {"200": {"description": "Dashboard retrieved"}}
            }
        },
        "/dashboard/status-breakdown": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Nutrition status breakdown",
                "responses": {"200": {"description": "Breakdown retrieved"}}
            }
        },
        "/reminder": {
            "get": {
                "tags": ["Reminder"],
                "summary": "List reminders",
                "responses": {"200": {"description": "Reminders retrieved"}}
            },
            "post": {
                "tags": ["Reminder"],
                "summary": "Schedule a follow-up reminder",
                "responses": {"200": {"description": "Reminder created"}}
            }
        },
        "/reminder/{id}/complete": {
            "patch": {
                "tags": ["Reminder"],
                "summary": "Complete a reminder",
                "responses": {"200": {"description": "Reminder completed"}}
            }
        },
        "/reminder/{id}": {
            "delete": {
                "tags": ["Reminder"],
                "summary": "Delete a reminder",
                "responses": {"200": {"description": "Reminder deleted"}}
            }
        },
        "/healthz": {
            "get": {
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {"200": {"description": "Service healthy"}}
            }
        }
    },
    "securityDefinitions": {
        "SessionToken": {
            "type": "apiKey",
            "name": "session-token",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "NutriScan API",
	Description:      "Pediatric malnutrition screening API: WHO growth assessment, skin and nail photo analysis, reports and chatbot.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
