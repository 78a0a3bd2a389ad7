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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get current user info", "responses": {"200": {"description": "OK"}}}},
        "/user/check-onboarding": {"get": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Check whether the current user still has to pick a role", "responses": {"200": {"description": "OK"}}}},
        "/user/onboarding": {"post": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Attach the first role to the current user", "responses": {"200": {"description": "OK"}}}},
        "/user/avatar": {"post": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Upload user avatar", "responses": {"200": {"description": "OK"}, "413": {"description": "Request Entity Too Large"}}}},
        "/users/{id}/roles": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "List a user's roles and permissions", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Assign a role to a user", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8001",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Auth Service API",
	Description:      "Accounts, onboarding and role management for LearnHub",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
