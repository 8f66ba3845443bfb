package clients

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HaseebAmer/bytecon/internal/graphql"
	"github.com/HaseebAmer/bytecon/internal/models"
)

const createUserDoc = `
mutation CreateUser($input: CreateUserInput!) {
  createUser(input: $input) {
    __typename
    ... on LoginPayload {
      token { token }
      user { id email firstName lastName }
    }
    ... on Error { msg code }
  }
}`

const loginDoc = `
mutation login($input: LoginUserInput!) {
  login(input: $input) {
    __typename
    ... on LoginPayload {
      token { token }
      user { id email firstName lastName }
    }
    ... on Error { msg code }
  }
}`

const meDoc = `
query {
  me { id firstName lastName email }
}`

const userProfileDoc = `
mutation {
  userProfile {
    user { id firstName lastName email }
    bio
    interests
    image
  }
}`

const requestPasswordResetDoc = `
mutation requestPasswordReset($input: RequestPasswordResetInput!) {
  requestPasswordReset(input: $input) {
    __typename
    ... on IDReturn { id }
    ... on Error { msg code }
  }
}`

const passwordResetDoc = `
mutation passwordReset($input: PasswordResetInput!) {
  passwordReset(input: $input) {
    __typename
    ... on IDReturn { id }
    ... on Error { msg code }
  }
}`

const editBioDoc = `
mutation editBio($input: EditBioInput!) {
  editBio(input: $input) {
    __typename
    ... on IDReturn { id }
    ... on Error { msg code }
  }
}`

const editInterestsDoc = `
mutation editInterests($input: EditInterestsInput!) {
  editInterests(input: $input) {
    __typename
    ... on IDReturn { id }
    ... on Error { msg code }
  }
}`

const editProfilePicDoc = `
mutation editProfilePic($input: EditImageInput!) {
  editProfilePic(input: $input) {
    __typename
    ... on IDReturn { id }
    ... on Error { msg code }
  }
}`

const editNameDoc = `
mutation editName($input: EditNameInput!) {
  editName(input: $input) {
    __typename
    ... on IDReturn { id }
    ... on Error { msg code }
  }
}`

const deleteUserDoc = `
mutation DeleteUser {
  deleteUser
}`

// Session is the credential pair handed out on login and signup.
type Session struct {
	Token string
	User  models.User
}

// idResult decodes the IDReturn | Error union shared by the edit
// mutations.
type idResult struct {
	Typename string `json:"__typename"`
	ID       int    `json:"id"`
	Msg      string `json:"msg"`
	Code     string `json:"code"`
}

func (r idResult) err() error {
	if r.Typename == "Error" {
		return &models.APIError{Msg: r.Msg, Code: r.Code}
	}
	return nil
}

// UserClient talks to the user/profile service.
type UserClient struct {
	gql    *graphql.Client
	logger *zap.Logger
}

func NewUserClient(endpoint string, timeout time.Duration, logger *zap.Logger) *UserClient {
	return &UserClient{
		gql:    graphql.NewClient(endpoint, timeout, logger),
		logger: logger,
	}
}

type loginResult struct {
	Typename string `json:"__typename"`
	Token    struct {
		Token string `json:"token"`
	} `json:"token"`
	User models.User `json:"user"`
	Msg  string      `json:"msg"`
	Code string      `json:"code"`
}

func (r loginResult) session() (*Session, error) {
	if r.Typename == "Error" {
		return nil, &models.APIError{Msg: r.Msg, Code: r.Code}
	}
	return &Session{Token: r.Token.Token, User: r.User}, nil
}

type signupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (c *UserClient) CreateUser(ctx context.Context, email, password, firstName, lastName string) (*Session, error) {
	var out struct {
		CreateUser loginResult `json:"createUser"`
	}
	vars := map[string]interface{}{
		"input": signupInput{Email: email, Password: password, FirstName: firstName, LastName: lastName},
	}
	if err := c.gql.Do(ctx, createUserDoc, vars, &out); err != nil {
		return nil, err
	}
	return out.CreateUser.session()
}

func (c *UserClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var out struct {
		Login loginResult `json:"login"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"email": email, "password": password},
	}
	if err := c.gql.Do(ctx, loginDoc, vars, &out); err != nil {
		return nil, err
	}
	return out.Login.session()
}

func (c *UserClient) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		Me models.User `json:"me"`
	}
	if err := c.gql.Do(ctx, meDoc, nil, &out); err != nil {
		return nil, err
	}
	return &out.Me, nil
}

func (c *UserClient) Profile(ctx context.Context) (*models.UserProfile, error) {
	var out struct {
		UserProfile models.UserProfile `json:"userProfile"`
	}
	if err := c.gql.Do(ctx, userProfileDoc, nil, &out); err != nil {
		return nil, err
	}
	return &out.UserProfile, nil
}

func (c *UserClient) RequestPasswordReset(ctx context.Context, email string) error {
	var out struct {
		Result idResult `json:"requestPasswordReset"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"email": email},
	}
	if err := c.gql.Do(ctx, requestPasswordResetDoc, vars, &out); err != nil {
		return err
	}
	return out.Result.err()
}

func (c *UserClient) ResetPassword(ctx context.Context, emailToken, newPassword string) error {
	var out struct {
		Result idResult `json:"passwordReset"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"emailToken": emailToken, "newPassword": newPassword},
	}
	if err := c.gql.Do(ctx, passwordResetDoc, vars, &out); err != nil {
		return err
	}
	return out.Result.err()
}

func (c *UserClient) EditBio(ctx context.Context, bio string) error {
	var out struct {
		Result idResult `json:"editBio"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"bio": bio},
	}
	if err := c.gql.Do(ctx, editBioDoc, vars, &out); err != nil {
		return err
	}
	return out.Result.err()
}

func (c *UserClient) EditInterests(ctx context.Context, interests []models.Tag) error {
	var out struct {
		Result idResult `json:"editInterests"`
	}
	vars := map[string]interface{}{
		"input": map[string]interface{}{"interests": interests},
	}
	if err := c.gql.Do(ctx, editInterestsDoc, vars, &out); err != nil {
		return err
	}
	return out.Result.err()
}

func (c *UserClient) EditProfilePic(ctx context.Context, image string) error {
	var out struct {
		Result idResult `json:"editProfilePic"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"image": image},
	}
	if err := c.gql.Do(ctx, editProfilePicDoc, vars, &out); err != nil {
		return err
	}
	return out.Result.err()
}

func (c *UserClient) EditName(ctx context.Context, firstName, lastName string) error {
	var out struct {
		Result idResult `json:"editName"`
	}
	vars := map[string]interface{}{
		"input": map[string]string{"firstName": firstName, "lastName": lastName},
	}
	if err := c.gql.Do(ctx, editNameDoc, vars, &out); err != nil {
		return err
	}
	return out.Result.err()
}

func (c *UserClient) DeleteAccount(ctx context.Context) error {
	var out struct {
		Deleted bool `json:"deleteUser"`
	}
	if err := c.gql.Do(ctx, deleteUserDoc, nil, &out); err != nil {
		return err
	}
	if !out.Deleted {
		return fmt.Errorf("account was not deleted")
	}
	return nil
}
