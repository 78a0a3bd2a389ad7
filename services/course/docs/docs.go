// Package docs is generated by swag init from the handler annotations.
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
        "/courses": {
            "get": {"tags": ["courses"], "summary": "List courses", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["courses"], "summary": "Create a course", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/courses/{id}": {
            "get": {"tags": ["courses"], "summary": "Get a course", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["courses"], "summary": "Update a course", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["courses"], "summary": "Delete a course", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/courses/{id}/cover": {"post": {"security": [{"BearerAuth": []}], "tags": ["courses"], "summary": "Upload a course cover image", "responses": {"200": {"description": "OK"}, "413": {"description": "Request Entity Too Large"}}}},
        "/courses/{id}/tree": {"get": {"tags": ["content"], "summary": "Get the content tree of a course", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/courses/{id}/volumes": {"post": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Add a volume", "responses": {"201": {"description": "Created"}}}},
        "/volumes/{id}/chapters": {"post": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Add a chapter", "responses": {"201": {"description": "Created"}}}},
        "/chapters/{id}/modules": {"post": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Add a module", "responses": {"201": {"description": "Created"}}}},
        "/modules/{id}/lessons": {"post": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Add a lesson", "responses": {"201": {"description": "Created"}}}},
        "/lessons/{id}/activities": {"post": {"security": [{"BearerAuth": []}], "tags": ["content"], "summary": "Add an activity", "responses": {"201": {"description": "Created"}}}},
        "/lessons/{id}": {"get": {"tags": ["content"], "summary": "Get a lesson with its activities", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/courses/{id}/enroll": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["enrollment"], "summary": "Enroll the current user in a course", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["enrollment"], "summary": "Leave a course", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/courses/{id}/enrollment": {"get": {"security": [{"BearerAuth": []}], "tags": ["enrollment"], "summary": "Enrollment status of the current user", "responses": {"200": {"description": "OK"}}}},
        "/me/enrollments": {"get": {"security": [{"BearerAuth": []}], "tags": ["enrollment"], "summary": "Courses the current user is enrolled in", "responses": {"200": {"description": "OK"}}}},
        "/lessons/{id}/view": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Mark a lesson as viewed", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Remove a lesson view", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/courses/{id}/progress": {"get": {"security": [{"BearerAuth": []}], "tags": ["progress"], "summary": "Lesson progress of the current user in a course", "responses": {"200": {"description": "OK"}}}},
        "/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Teacher dashboard over all authored courses", "responses": {"200": {"description": "OK"}}}},
        "/dashboard/courses/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["dashboard"], "summary": "Dashboard counters for one authored course", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8002",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Course Service API",
	Description:      "Courses, content, enrollment and teacher dashboards for LearnHub",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
