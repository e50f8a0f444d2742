// Package models defines domain entities and persistence interfaces for autoalbum.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Photos Library data
//   - [Album] : Album metadata, owned or shared with the user
//   - [MediaItem] : A photo or video with its mime type and creation time
//   - [Page] : One page of a listing plus the continuation token
//   - [SyncConfiguration] : The persisted source/destination album choice
//
// 2. Persistent Entities: Database-backed models with lifecycle management
//   - [SyncRun] : One reconciliation run with its plan and outcome
//
// Persistent entities implement the [Model] interface providing ID generation, timestamps and validation.
// The Repository[T] interface defines the CRUD operations for database access.
package models
