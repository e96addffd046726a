// Package docs registers the OpenAPI document served at /api/swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/users/register": {
            "post": {
                "tags": ["users"],
                "summary": "Register",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/models.User"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "tags": ["users"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.LoginInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/models.User"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Logout",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Current user's profile",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Profile"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{userId}/counts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["activity"],
                "summary": "Today's and all-time counts",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "User ID (must be the caller)", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Counts"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/users/{userId}/increment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["activity"],
                "summary": "Add one to today's counter",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "User ID (must be the caller)", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}, "todayCount": {"type": "integer"}, "totalCount": {"type": "integer"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friends": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List friends",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserSummary"}}}
                }
            }
        },
        "/friends/request": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Send a friend request",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.FriendCodeRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}, "request": {"$ref": "#/definitions/models.SentRequestView"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friends/accept": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Accept a friend request",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.RequestIDRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friends/reject": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Reject a friend request",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/server.RequestIDRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/friends/requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List received friend requests",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PendingRequestView"}}}
                }
            }
        },
        "/friends/requests/sent": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "List sent friend requests",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.SentRequestView"}}}
                }
            }
        },
        "/friends/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["activity"],
                "summary": "Leaderboard of the caller and their friends",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "today, week or month; anything else means all", "name": "filter", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UserStats"}}}
                }
            }
        },
        "/friends/{userId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["friends"],
                "summary": "Remove a friend",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "Friend's user ID", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"message": {"type": "string"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {"type": "object", "properties": {"message": {"type": "string"}, "code": {"type": "string"}}},
        "models.User": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}, "friendCode": {"type": "string"}, "createdAt": {"type": "string"}}},
        "models.UserSummary": {"type": "object", "properties": {"id": {"type": "integer"}, "username": {"type": "string"}}},
        "models.PendingRequestView": {"type": "object", "properties": {"id": {"type": "integer"}, "from": {"$ref": "#/definitions/models.UserSummary"}, "createdAt": {"type": "string"}}},
        "models.SentRequestView": {"type": "object", "properties": {"id": {"type": "integer"}, "to": {"$ref": "#/definitions/models.UserSummary"}, "createdAt": {"type": "string"}}},
        "models.Profile": {"type": "object", "properties": {
            "id": {"type": "integer"}, "username": {"type": "string"}, "friendCode": {"type": "string"}, "createdAt": {"type": "string"},
            "friends": {"type": "array", "items": {"$ref": "#/definitions/models.UserSummary"}},
            "pendingFriendRequests": {"type": "array", "items": {"$ref": "#/definitions/models.PendingRequestView"}},
            "sentFriendRequests": {"type": "array", "items": {"$ref": "#/definitions/models.SentRequestView"}}
        }},
        "models.Counts": {"type": "object", "properties": {"todayCount": {"type": "integer"}, "totalCount": {"type": "integer"}}},
        "models.DateCount": {"type": "object", "properties": {"date": {"type": "string"}, "count": {"type": "integer"}}},
        "models.UserStats": {"type": "object", "properties": {
            "userId": {"type": "integer"}, "username": {"type": "string"}, "isSelf": {"type": "boolean"}, "totalCount": {"type": "integer"},
            "dateCounts": {"type": "array", "items": {"$ref": "#/definitions/models.DateCount"}}
        }},
        "service.RegisterInput": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string", "minLength": 3, "maxLength": 30}, "password": {"type": "string", "minLength": 8, "maxLength": 72}}},
        "service.LoginInput": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "server.FriendCodeRequest": {"type": "object", "required": ["friendCode"], "properties": {"friendCode": {"type": "string"}}},
        "server.RequestIDRequest": {"type": "object", "required": ["requestId"], "properties": {"requestId": {"type": "integer"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Tally API",
	Description:      "Daily activity counter with friends and leaderboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
