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
        "/notifications": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Get user notifications", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}},
        "/notifications/unread-count": {"get": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Unread badge counter", "responses": {"200": {"description": "OK"}}}},
        "/notifications/{id}/read": {"post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Mark a notification as read", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/notifications/{id}/archive": {"post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Archive a notification", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/notifications/read-all": {"post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Mark every unread notification as read", "responses": {"200": {"description": "OK"}}}},
        "/notifications/ws": {"get": {"tags": ["notifications"], "summary": "Live notification stream", "parameters": [{"type": "string", "name": "token", "in": "query", "required": true}], "responses": {"101": {"description": "Switching Protocols"}, "401": {"description": "Unauthorized"}, "503": {"description": "Service Unavailable"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8004",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Notification Service API",
	Description:      "Inbox, unread badge and live stream of LearnHub notifications",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
