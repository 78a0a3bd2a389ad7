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
        "/questions": {
            "get": {"tags": ["questions"], "summary": "List questions visible to the caller", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["questions"], "summary": "Ask a question", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/questions/{id}": {
            "get": {"tags": ["questions"], "summary": "Get a question", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["questions"], "summary": "Edit a question", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["questions"], "summary": "Delete a question", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/questions/{id}/attachments": {"post": {"security": [{"BearerAuth": []}], "tags": ["questions"], "summary": "Attach a file to a question", "responses": {"200": {"description": "OK"}, "413": {"description": "Request Entity Too Large"}}}},
        "/questions/{id}/answers": {
            "get": {"tags": ["answers"], "summary": "Answers of a question, accepted first", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["answers"], "summary": "Answer a question", "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/answers/{id}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["answers"], "summary": "Edit an answer", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["answers"], "summary": "Delete an answer", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/answers/{id}/accept": {"post": {"security": [{"BearerAuth": []}], "tags": ["answers"], "summary": "Accept an answer (question author only)", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/questions/{id}/vote": {"post": {"security": [{"BearerAuth": []}], "tags": ["votes"], "summary": "Vote on a question", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/answers/{id}/vote": {"post": {"security": [{"BearerAuth": []}], "tags": ["votes"], "summary": "Vote on an answer", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/users/{id}/reputation": {"get": {"tags": ["users"], "summary": "Reputation of a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/users/{id}/profile": {"get": {"tags": ["users"], "summary": "Public profile with reputation, counters and contribution heatmap", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/similarity": {"post": {"tags": ["similarity"], "summary": "Find questions similar to a query", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}},
        "/similarity/batch": {"post": {"tags": ["similarity"], "summary": "Similarity search for several queries", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Bad Gateway"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8003",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Forum Service API",
	Description:      "Questions, answers, votes, reputation and similarity search for LearnHub",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
