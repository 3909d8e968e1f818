// Package docs registers the API document with swag. Regenerate with
// `swag init` after changing handler annotations.
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
        "/api/leaks": {
            "get": {"summary": "List leaks, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"summary": "Submit a leak report", "consumes": ["multipart/form-data", "application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/leaks/geojson": {
            "get": {"summary": "Leaks as a GeoJSON FeatureCollection", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/leaks/{id}": {
            "get": {"summary": "Get one leak", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/leaks/{id}/status": {
            "patch": {"summary": "Set a leak's status", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/leaks/{id}/validation": {
            "patch": {"summary": "Override a leak's validation flag", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/leaks/{id}/comments": {
            "get": {"summary": "List a leak's comments, oldest first", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"summary": "Comment on a leak", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/api/users": {
            "post": {"summary": "Register a user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/users/{id}/leaks": {
            "get": {"summary": "List one user's leaks", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/login": {
            "post": {"summary": "Obtain a bearer token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/stats": {
            "get": {"summary": "Dashboard counters", "responses": {"200": {"description": "OK"}}}
        },
        "/api/admin/leaks/export": {
            "get": {"summary": "Download leaks as XLSX", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Leakwatch API",
	Description:      "Citizen leak and infrastructure-damage reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
