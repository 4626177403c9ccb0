// Package api provides the administrative REST API of BlockPipe
// @title BlockPipe Admin API
// @version 1.0
// @description Control surface of the block task pipeline: pause, resume, backfill and task maintenance
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/BlockPipe
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /api/v1
// @schemes http https
package api
