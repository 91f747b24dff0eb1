// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
	"openapi": "3.1.0",
	"info": {
		"title": "{{.Title}}",
		"description": "{{escape .Description}}",
		"version": "{{.Version}}",
		"contact": {},
		"license": {
			"name": "Proprietary"
		}
	},
	"servers": [
		{
			"url": "//{{.Host}}{{.BasePath}}"
		}
	],
	"paths": {
		"/auth/sign-in": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign in with email and password",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				}
			}
		},
		"/auth/refresh": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Rotate a refresh token",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				}
			}
		},
		"/auth/sign-out": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Revoke the current tokens",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/auth/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current user",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/organisations": {
			"post": {
				"tags": [
					"organisations"
				],
				"summary": "Create organisation",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"organisations"
				],
				"summary": "List organisations",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/organisations/{id}": {
			"get": {
				"tags": [
					"organisations"
				],
				"summary": "Get organisation",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"organisations"
				],
				"summary": "Update organisation",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"organisations"
				],
				"summary": "Delete organisation",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/branches": {
			"post": {
				"tags": [
					"branches"
				],
				"summary": "Create branch",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"branches"
				],
				"summary": "List branches",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/branches/{id}": {
			"get": {
				"tags": [
					"branches"
				],
				"summary": "Get branch",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"branches"
				],
				"summary": "Update branch",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"branches"
				],
				"summary": "Delete branch",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/users": {
			"post": {
				"tags": [
					"users"
				],
				"summary": "Create user",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"users"
				],
				"summary": "List users",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/users/{id}": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "Get user",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"users"
				],
				"summary": "Update user",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"users"
				],
				"summary": "Delete user",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/users/{id}/password": {
			"put": {
				"tags": [
					"users"
				],
				"summary": "Change password",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks": {
			"post": {
				"tags": [
					"tasks"
				],
				"summary": "Create task",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"tasks"
				],
				"summary": "List tasks",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/me": {
			"get": {
				"tags": [
					"tasks"
				],
				"summary": "Tasks assigned to the caller",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}": {
			"get": {
				"tags": [
					"tasks"
				],
				"summary": "Get task",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"tasks"
				],
				"summary": "Update task",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"tasks"
				],
				"summary": "Soft-delete task",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}/progress": {
			"patch": {
				"tags": [
					"tasks"
				],
				"summary": "Update progress",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}/status": {
			"patch": {
				"tags": [
					"tasks"
				],
				"summary": "Change status",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}/subtasks/{subtaskId}/complete": {
			"patch": {
				"tags": [
					"tasks"
				],
				"summary": "Complete subtask",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "subtaskId",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}/restore": {
			"post": {
				"tags": [
					"tasks"
				],
				"summary": "Restore task",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}/routes": {
			"get": {
				"tags": [
					"routes"
				],
				"summary": "Routes of a task for a day",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tasks/{id}/routes/replan": {
			"post": {
				"tags": [
					"routes"
				],
				"summary": "Replan routes of a task",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/routes": {
			"get": {
				"tags": [
					"routes"
				],
				"summary": "List routes",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/routes/{id}": {
			"get": {
				"tags": [
					"routes"
				],
				"summary": "Get route",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/clients": {
			"post": {
				"tags": [
					"clients"
				],
				"summary": "Create client",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"clients"
				],
				"summary": "List clients",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/clients/{id}": {
			"get": {
				"tags": [
					"clients"
				],
				"summary": "Get client",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"clients"
				],
				"summary": "Update client",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"clients"
				],
				"summary": "Delete client",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leads": {
			"post": {
				"tags": [
					"leads"
				],
				"summary": "Create lead",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"leads"
				],
				"summary": "List leads",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leads/rescore": {
			"post": {
				"tags": [
					"leads"
				],
				"summary": "Rescore open leads",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leads/{id}": {
			"get": {
				"tags": [
					"leads"
				],
				"summary": "Get lead",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"leads"
				],
				"summary": "Update lead",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"leads"
				],
				"summary": "Delete lead",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leads/{id}/convert": {
			"post": {
				"tags": [
					"leads"
				],
				"summary": "Convert lead to client",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leads/{id}/score": {
			"post": {
				"tags": [
					"leads"
				],
				"summary": "Score lead",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/quotations": {
			"post": {
				"tags": [
					"quotations"
				],
				"summary": "Create quotation",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"quotations"
				],
				"summary": "List quotations",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/quotations/{id}": {
			"get": {
				"tags": [
					"quotations"
				],
				"summary": "Get quotation",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/quotations/{id}/status": {
			"patch": {
				"tags": [
					"quotations"
				],
				"summary": "Change quotation status",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/attendance/check-in": {
			"post": {
				"tags": [
					"attendance"
				],
				"summary": "Start a shift",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/attendance/check-out": {
			"post": {
				"tags": [
					"attendance"
				],
				"summary": "End the open shift",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/attendance/status": {
			"get": {
				"tags": [
					"attendance"
				],
				"summary": "Shift status",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/attendance/me": {
			"get": {
				"tags": [
					"attendance"
				],
				"summary": "Own shifts",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/attendance/branch/{branchId}": {
			"get": {
				"tags": [
					"attendance"
				],
				"summary": "Shifts of a branch",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "branchId",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/check-ins": {
			"post": {
				"tags": [
					"check-ins"
				],
				"summary": "Check in at a client",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"check-ins"
				],
				"summary": "List client visits",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/check-ins/{id}/check-out": {
			"post": {
				"tags": [
					"check-ins"
				],
				"summary": "Check out of a client visit",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/claims": {
			"post": {
				"tags": [
					"claims"
				],
				"summary": "Submit claim",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"claims"
				],
				"summary": "List claims",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/claims/{id}": {
			"get": {
				"tags": [
					"claims"
				],
				"summary": "Get claim",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"claims"
				],
				"summary": "Delete claim",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/claims/{id}/status": {
			"patch": {
				"tags": [
					"claims"
				],
				"summary": "Change claim status",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leave": {
			"post": {
				"tags": [
					"leave"
				],
				"summary": "Request leave",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"leave"
				],
				"summary": "List leave requests",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leave/{id}": {
			"get": {
				"tags": [
					"leave"
				],
				"summary": "Get leave request",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leave/{id}/approve": {
			"post": {
				"tags": [
					"leave"
				],
				"summary": "Approve leave",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leave/{id}/reject": {
			"post": {
				"tags": [
					"leave"
				],
				"summary": "Reject leave",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leave/{id}/cancel": {
			"post": {
				"tags": [
					"leave"
				],
				"summary": "Cancel leave",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/docs/upload-url": {
			"post": {
				"tags": [
					"docs"
				],
				"summary": "Presign a document upload",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/docs/{id}/confirm": {
			"post": {
				"tags": [
					"docs"
				],
				"summary": "Confirm an upload",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/docs/{id}/download-url": {
			"get": {
				"tags": [
					"docs"
				],
				"summary": "Presign a download",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/docs": {
			"get": {
				"tags": [
					"docs"
				],
				"summary": "List documents",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/docs/{id}": {
			"delete": {
				"tags": [
					"docs"
				],
				"summary": "Delete document",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/rewards/me": {
			"get": {
				"tags": [
					"rewards"
				],
				"summary": "Own XP balance",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/rewards/leaderboard": {
			"get": {
				"tags": [
					"rewards"
				],
				"summary": "XP leaderboard",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/rewards/award": {
			"post": {
				"tags": [
					"rewards"
				],
				"summary": "Award XP",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/licenses": {
			"post": {
				"tags": [
					"licenses"
				],
				"summary": "Issue a license",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"get": {
				"tags": [
					"licenses"
				],
				"summary": "List licenses",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/licenses/{id}": {
			"get": {
				"tags": [
					"licenses"
				],
				"summary": "Get license",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/licenses/validate": {
			"post": {
				"tags": [
					"licenses"
				],
				"summary": "Validate a license key",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/licenses/{id}/suspend": {
			"post": {
				"tags": [
					"licenses"
				],
				"summary": "Suspend license",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/licenses/{id}/activate": {
			"post": {
				"tags": [
					"licenses"
				],
				"summary": "Activate license",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/licenses/{id}/renew": {
			"post": {
				"tags": [
					"licenses"
				],
				"summary": "Renew license",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "id",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/reports/{type}": {
			"get": {
				"tags": [
					"reports"
				],
				"summary": "Report summary",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "type",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/reports/{type}/export": {
			"get": {
				"tags": [
					"reports"
				],
				"summary": "Export report as xlsx",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"parameters": [
					{
						"name": "type",
						"in": "path",
						"required": true,
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/settings/public": {
			"get": {
				"tags": [
					"settings"
				],
				"summary": "Public client settings",
				"responses": {
					"200": {
						"$ref": "#/components/responses/Success"
					},
					"default": {
						"$ref": "#/components/responses/Error"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"components": {
		"securitySchemes": {
			"BearerAuth": {
				"type": "http",
				"scheme": "bearer",
				"bearerFormat": "JWT"
			}
		},
		"schemas": {
			"Response": {
				"type": "object",
				"properties": {
					"success": {
						"type": "boolean"
					},
					"data": {},
					"error": {
						"$ref": "#/components/schemas/ErrorInfo"
					},
					"meta": {
						"$ref": "#/components/schemas/Meta"
					}
				}
			},
			"ErrorInfo": {
				"type": "object",
				"properties": {
					"code": {
						"type": "string"
					},
					"message": {
						"type": "string"
					},
					"request_id": {
						"type": "string"
					},
					"details": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"field": {
									"type": "string"
								},
								"message": {
									"type": "string"
								}
							}
						}
					}
				}
			},
			"Meta": {
				"type": "object",
				"properties": {
					"total": {
						"type": "integer"
					},
					"page": {
						"type": "integer"
					},
					"page_size": {
						"type": "integer"
					},
					"total_pages": {
						"type": "integer"
					}
				}
			}
		},
		"responses": {
			"Success": {
				"description": "OK",
				"content": {
					"application/json": {
						"schema": {
							"$ref": "#/components/schemas/Response"
						}
					}
				}
			},
			"Error": {
				"description": "Error envelope",
				"content": {
					"application/json": {
						"schema": {
							"$ref": "#/components/schemas/Response"
						}
					}
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "LORO API",
	Description:      "Multi-tenant field workforce management API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
