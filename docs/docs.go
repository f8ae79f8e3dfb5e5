// Package docs registers the weNote OpenAPI document with swag so the
// swagger UI at /swagger/* can serve it. Regenerate with `swag init -g cmd/server/main.go`.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh the session token",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}}}
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update own profile",
                "parameters": [
                    {"type": "string", "description": "User id (must be the caller)", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.userUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete own account",
                "parameters": [{"type": "string", "description": "User id (must be the caller)", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        },
        "/users/email/{email}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Find a user by email",
                "parameters": [{"type": "string", "description": "Email address", "name": "email", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}}}
            }
        },
        "/notes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "List my notes",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Note"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Create a note",
                "parameters": [{"description": "Note", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.noteRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Note"}}}
            }
        },
        "/notes/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Get a note",
                "parameters": [{"type": "string", "description": "Note id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Note"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Update a note",
                "parameters": [
                    {"type": "string", "description": "Note id", "name": "id", "in": "path", "required": true},
                    {"description": "Note", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.noteRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Note"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Delete my copy of a note",
                "parameters": [{"type": "string", "description": "Note id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deleteNoteResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        },
        "/notes/{id}/share": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "Share a note",
                "parameters": [
                    {"type": "string", "description": "Note id", "name": "id", "in": "path", "required": true},
                    {"description": "User to invite", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.shareRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Note"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        },
        "/notes/{id}/collaborators": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notes"],
                "summary": "List collaborators",
                "parameters": [{"type": "string", "description": "Note id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.UserSummary"}}}}
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Category"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [{"description": "Category", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.categoryRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Category"}}}
            }
        },
        "/categories/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Get a category",
                "parameters": [{"type": "string", "description": "Category id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Category"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Update a category",
                "parameters": [
                    {"type": "string", "description": "Category id", "name": "id", "in": "path", "required": true},
                    {"description": "Category", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.categoryRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Category"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["categories"],
                "summary": "Delete a category",
                "parameters": [{"type": "string", "description": "Category id", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/notecat": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notecat"],
                "summary": "Link a note to a category",
                "parameters": [{"description": "Link", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.noteCategoryRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.NoteCategory"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/notecat/note/{noteId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notecat"],
                "summary": "Categories of a note",
                "parameters": [{"type": "string", "description": "Note id", "name": "noteId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.NoteCategory"}}}}
            }
        },
        "/notecat/note/{noteId}/category/{categoryId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notecat"],
                "summary": "Get one note category link",
                "parameters": [
                    {"type": "string", "description": "Note id", "name": "noteId", "in": "path", "required": true},
                    {"type": "string", "description": "Category id", "name": "categoryId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.NoteCategory"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        },
        "/notecat/category/{categoryId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notecat"],
                "summary": "Notes in a category",
                "parameters": [{"type": "string", "description": "Category id", "name": "categoryId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.NoteCategory"}}}}
            }
        },
        "/notecat/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["notecat"],
                "summary": "Unlink a note from a category",
                "parameters": [{"type": "string", "description": "Link id", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}}
            }
        },
        "/ws": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Upgrades to a WebSocket carrying openNote, contentChange and logout frames.",
                "tags": ["collaboration"],
                "summary": "Real-time collaboration socket",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        }
    },
    "definitions": {
        "domain.Category": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "domain.Note": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "edited_at": {"type": "string"},
                "id": {"type": "string"},
                "title": {"type": "string"},
                "user_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "domain.NoteCategory": {
            "type": "object",
            "properties": {
                "category_id": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "note_id": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "updated_at": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "domain.UserSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.categoryRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "description": {"type": "string", "maxLength": 500},
                "name": {"type": "string", "maxLength": 100}
            }
        },
        "handler.deleteNoteResponse": {
            "type": "object",
            "properties": {"deleted": {"type": "boolean"}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "remember_me": {"type": "boolean"}
            }
        },
        "handler.noteCategoryRequest": {
            "type": "object",
            "required": ["category_id", "note_id"],
            "properties": {
                "category_id": {"type": "string"},
                "note_id": {"type": "string"}
            }
        },
        "handler.noteRequest": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "maxLength": 100},
                "content": {"type": "string"},
                "title": {"type": "string", "maxLength": 200}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "password", "username"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "username": {"type": "string", "maxLength": 64, "minLength": 2}
            }
        },
        "handler.shareRequest": {
            "type": "object",
            "required": ["user_id"],
            "properties": {"user_id": {"type": "string"}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "created_at": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.userUpdateRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string", "maxLength": 64, "minLength": 2}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
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
	Title:            "weNote API",
	Description:      "Collaborative notes: REST for users, notes, sharing and categories; WebSocket for live presence and edits.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
