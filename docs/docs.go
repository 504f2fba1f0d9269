package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "FlowBoard API Documentation",
        "title": "FlowBoard API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/api/v1/auth/signin": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign In",
                "description": "Sign in with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "description": "Sign-in credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "admin@flowboard.dev"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "admin123"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Sign-in successful"
                    },
                    "401": {
                        "description": "Invalid credentials"
                    },
                    "403": {
                        "description": "Account is not active"
                    }
                }
            }
        },
        "/api/v1/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign Up",
                "description": "Register a new staff account; it stays pending until an admin activates it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "user",
                        "description": "Registration data",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "user@example.com"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "password123"
                                },
                                "first_name": {
                                    "type": "string",
                                    "example": "Ada"
                                },
                                "last_name": {
                                    "type": "string",
                                    "example": "Lovelace"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Account created, pending activation"
                    },
                    "409": {
                        "description": "Email already registered"
                    }
                }
            }
        },
        "/api/v1/projects/{id}/board": {
            "get": {
                "tags": ["Board"],
                "summary": "Load Board",
                "description": "Load a project's kanban board, bucketing tasks into todo, inProgress and completed columns",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Board columns"
                    },
                    "404": {
                        "description": "Project not found"
                    }
                }
            }
        },
        "/api/v1/projects/{id}/board/move": {
            "post": {
                "tags": ["Board"],
                "summary": "Move Task",
                "description": "Move a task between board positions; cross-column moves persist the task's progress and roll back on failure",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Project ID"
                    },
                    {
                        "in": "body",
                        "name": "move",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "task_id": {
                                    "type": "string"
                                },
                                "from": {
                                    "type": "string",
                                    "enum": ["todo", "inProgress", "completed"]
                                },
                                "from_index": {
                                    "type": "integer"
                                },
                                "to": {
                                    "type": "string",
                                    "enum": ["todo", "inProgress", "completed"]
                                },
                                "to_index": {
                                    "type": "integer"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Move result with outcome applied, reverted or discarded"
                    },
                    "400": {
                        "description": "Task not at the given position"
                    }
                }
            }
        },
        "/api/v1/tasks/{id}/approve": {
            "post": {
                "tags": ["Review"],
                "summary": "Approve Task",
                "description": "Advance a task one pipeline stage; approval at documentation completes the task. Admin only.",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Task ID"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task advanced"
                    },
                    "403": {
                        "description": "Not an admin"
                    },
                    "409": {
                        "description": "Task already completed"
                    }
                }
            }
        },
        "/api/v1/tasks/{id}/reject": {
            "post": {
                "tags": ["Review"],
                "summary": "Reject Task",
                "description": "Reject a task's current stage with a mandatory comment. Admin only.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Task ID"
                    },
                    {
                        "in": "body",
                        "name": "rejection",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "comment": {
                                    "type": "string",
                                    "example": "Needs error handling"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Task rejected"
                    },
                    "400": {
                        "description": "Comment missing"
                    },
                    "403": {
                        "description": "Not an admin"
                    }
                }
            }
        },
        "/api/v1/users/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Get Current User",
                "description": "Get information about the currently authenticated user",
                "produces": ["application/json"],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "User information"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "FlowBoard API",
	Description:      "FlowBoard API Documentation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
